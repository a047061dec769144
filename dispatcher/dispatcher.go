// MIT License
//
// Copyright (c) 2024-2026 Gokka Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package dispatcher resolves named dispatcher settings out of the
// configuration tree.
//
// A dispatcher reference is a configuration path holding either a literal
// settings block or a single "${other.path}" substitution expression whose
// target must itself be a literal block. Substitution follows exactly one
// level; chained substitutions are a configuration error.
package dispatcher

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/knadh/koanf/v2"

	"github.com/gokka/gokka/errors"
)

// DefaultID is the configuration path of the default dispatcher.
const DefaultID = "gokka.actor.default-dispatcher"

const (
	throughputKey       = "throughput"
	poolSizeKey         = "pool-size"
	schedulingPolicyKey = "scheduling-policy"
	shutdownTimeoutKey  = "shutdown-timeout"

	defaultThroughput      = 100
	defaultSchedulePolicy  = "fifo"
	defaultShutdownTimeout = 3 * time.Second
)

// Settings holds the execution-resource policy of a dispatcher.
type Settings struct {
	// Throughput is the number of messages an actor processes before yielding
	// its scheduling slot.
	Throughput int
	// PoolSize is the number of worker threads available to the dispatcher.
	PoolSize int
	// SchedulingPolicy names the scheduling policy.
	SchedulingPolicy string
	// ShutdownTimeout bounds how long the dispatcher waits for in-flight work
	// during shutdown.
	ShutdownTimeout time.Duration
}

// Default returns the settings used when no dispatcher is configured.
func Default() Settings {
	return Settings{
		Throughput:       defaultThroughput,
		PoolSize:         runtime.NumCPU(),
		SchedulingPolicy: defaultSchedulePolicy,
		ShutdownTimeout:  defaultShutdownTimeout,
	}
}

// IsSubstitution reports whether the reference is a "${other.path}"
// substitution expression.
func IsSubstitution(ref string) bool {
	return strings.HasPrefix(ref, "${") && strings.HasSuffix(ref, "}")
}

// Resolve resolves a dispatcher reference against the configuration tree.
//
// The reference is either a configuration path or a substitution expression.
// When the value at the referenced path is itself a substitution, Resolve
// follows it once; the target must then be a literal settings block.
// An empty reference resolves to the default dispatcher's settings, falling
// back to Default() when none is configured.
func Resolve(ref string, k *koanf.Koanf) (Settings, error) {
	if k == nil {
		k = koanf.New(".")
	}

	if ref == "" {
		if !k.Exists(DefaultID) {
			return Default(), nil
		}
		ref = DefaultID
	}

	path, substituted := ref, false
	if IsSubstitution(path) {
		path = substitutionTarget(path)
		substituted = true
	}

	// the referenced value may itself be a substitution expression, but only
	// one level deep in total
	for {
		value, isString := k.Get(path).(string)
		if !isString {
			break
		}
		if !IsSubstitution(value) {
			return Settings{}, fmt.Errorf("%w: %q does not hold a settings block", errors.ErrConfigurationMalformed, path)
		}
		if substituted {
			return Settings{}, fmt.Errorf("%w: %q chains more than one substitution", errors.ErrConfigurationMalformed, ref)
		}
		path = substitutionTarget(value)
		substituted = true
	}

	if !k.Exists(path) {
		return Settings{}, fmt.Errorf("%w: %q", errors.ErrDispatcherNotFound, ref)
	}

	return parseBlock(path, k)
}

func substitutionTarget(expr string) string {
	return strings.TrimSuffix(strings.TrimPrefix(expr, "${"), "}")
}

func parseBlock(path string, k *koanf.Koanf) (Settings, error) {
	block := k.Cut(path)
	settings := Default()

	if block.Exists(throughputKey) {
		settings.Throughput = block.Int(throughputKey)
	}
	if block.Exists(poolSizeKey) {
		settings.PoolSize = block.Int(poolSizeKey)
	}
	if block.Exists(schedulingPolicyKey) {
		settings.SchedulingPolicy = block.String(schedulingPolicyKey)
	}
	if block.Exists(shutdownTimeoutKey) {
		settings.ShutdownTimeout = block.Duration(shutdownTimeoutKey)
	}

	if settings.Throughput < 1 {
		return Settings{}, fmt.Errorf("%w: %q declares throughput %d", errors.ErrConfigurationMalformed, path, settings.Throughput)
	}
	if settings.PoolSize < 1 {
		return Settings{}, fmt.Errorf("%w: %q declares pool-size %d", errors.ErrConfigurationMalformed, path, settings.PoolSize)
	}
	return settings, nil
}
