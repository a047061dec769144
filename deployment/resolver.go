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

package deployment

import (
	"fmt"

	"github.com/gokka/gokka/address"
	"github.com/gokka/gokka/errors"
)

// Resolver merges the three candidate router specifications for an actor
// path into one effective configuration. Precedence, highest first:
//
//  1. the deployment entry matched from configuration
//  2. the explicit deploy supplied alongside the creation call
//  3. the code-level default embedded in the actor's props
//
// The winning source replaces the specification outright, kind included;
// fields are never merged across sources. Resolver is a pure function of
// its configuration snapshot and is safe for concurrent use.
type Resolver struct {
	config *Config
}

// NewResolver creates a resolver over the given configuration snapshot.
// A nil configuration is treated as empty.
func NewResolver(config *Config) *Resolver {
	if config == nil {
		config = Empty()
	}
	return &Resolver{config: config}
}

// Resolve returns the effective router configuration for the given actor
// path. Either spec may be nil or the FromConfig sentinel. When no source
// yields a usable specification the resolution fails with
// ErrConfigurationIncomplete: an incomplete specification is never silently
// downgraded to a default dispatch strategy.
func (x *Resolver) Resolve(path address.Path, codeSpec, explicitSpec RouterSpec) (RouterConfig, error) {
	if entry, ok := x.config.Match(path); ok {
		config := entry.routerConfig()
		if err := config.Validate(); err != nil {
			return RouterConfig{}, err
		}
		return config, nil
	}

	for _, spec := range []RouterSpec{explicitSpec, codeSpec} {
		if spec == nil || IsFromConfig(spec) {
			continue
		}
		config, err := specConfig(spec)
		if err != nil {
			return RouterConfig{}, err
		}
		return config, nil
	}

	return RouterConfig{}, fmt.Errorf("%w: no deployment entry matches %q and no deploy was supplied", errors.ErrConfigurationIncomplete, path)
}

// specConfig converts a caller-supplied specification into an effective
// configuration, validating its shape.
func specConfig(spec RouterSpec) (RouterConfig, error) {
	var config RouterConfig
	switch s := spec.(type) {
	case PoolSpec:
		config = RouterConfig{
			Kind: s.Kind,
			Pool: &PoolConfig{
				NrOfInstances:     s.NrOfInstances,
				DispatcherID:      s.Dispatcher,
				UsePoolDispatcher: s.UsePoolDispatcher,
			},
		}
	case GroupSpec:
		config = RouterConfig{
			Kind:  s.Kind,
			Group: &GroupConfig{Paths: s.Paths},
		}
	default:
		return RouterConfig{}, fmt.Errorf("%w: unsupported router spec %T", errors.ErrConfigurationMalformed, spec)
	}

	config = config.Copy()
	if err := config.Validate(); err != nil {
		return RouterConfig{}, err
	}
	return config, nil
}
