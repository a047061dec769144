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

// RouterSpec is a router specification supplied by the caller, either as the
// code-level default embedded in an actor's props or as an explicit deploy
// alongside the creation call. It is one of PoolSpec, GroupSpec or the
// FromConfig sentinel.
type RouterSpec interface {
	routerSpec()
}

// PoolSpec specifies a pool router at the call site.
type PoolSpec struct {
	// Kind is one of the pool kinds.
	Kind Kind
	// NrOfInstances is the number of routees the pool spawns. Must be positive.
	NrOfInstances int
	// Dispatcher optionally names the dispatcher configuration path the
	// routees run on. Empty means the default dispatcher.
	Dispatcher string
	// UsePoolDispatcher runs the routees on the pool's dedicated dispatcher.
	UsePoolDispatcher bool
}

// GroupSpec specifies a group router at the call site.
type GroupSpec struct {
	// Kind is one of the group kinds.
	Kind Kind
	// Paths lists the pre-existing routee actors, in dispatch order.
	Paths []address.Path
}

// fromConfig is the "use whatever the deployment configuration says" sentinel.
type fromConfig struct{}

func (PoolSpec) routerSpec()   {}
func (GroupSpec) routerSpec()  {}
func (fromConfig) routerSpec() {}

// FromConfig returns the router specification sentinel that defers entirely
// to the deployment configuration. Creating an actor with this spec fails
// with ErrConfigurationIncomplete when no configuration entry matches the
// actor's path.
func FromConfig() RouterSpec {
	return fromConfig{}
}

// IsFromConfig reports whether the given spec is the FromConfig sentinel.
func IsFromConfig(spec RouterSpec) bool {
	_, ok := spec.(fromConfig)
	return ok
}

// PoolConfig carries the resolved parameters of a pool router.
type PoolConfig struct {
	// NrOfInstances is the number of routees the pool spawns.
	NrOfInstances int
	// DispatcherID is the configuration path of the dispatcher the routees
	// run on. Empty means the default dispatcher.
	DispatcherID string
	// UsePoolDispatcher is true when the deployment designates a dedicated
	// pool dispatcher, inline or via substitution.
	UsePoolDispatcher bool
}

// GroupConfig carries the resolved parameters of a group router.
type GroupConfig struct {
	// Paths lists the routee actors, in dispatch order.
	Paths []address.Path
}

// RouterConfig is the single, fully-resolved router specification used to
// build a live router. Exactly one of Pool and Group is populated, matching
// the kind's pool/group nature. Values are immutable once produced by the
// resolver.
type RouterConfig struct {
	// Kind is the concrete router variant.
	Kind Kind
	// Pool is set for pool kinds.
	Pool *PoolConfig
	// Group is set for group kinds.
	Group *GroupConfig
}

// Validate checks that the configuration's shape matches its declared kind.
// A violation is a configuration error, raised synchronously at creation
// time and never deferred to first message send.
func (x RouterConfig) Validate() error {
	switch {
	case x.Kind.IsPool():
		if x.Pool == nil || x.Group != nil {
			return fmt.Errorf("%w: %s requires pool settings only", errors.ErrConfigurationMalformed, x.Kind)
		}
		if x.Pool.NrOfInstances < 1 {
			return fmt.Errorf("%w: %s declared %d instances", errors.ErrInvalidRouterPoolSize, x.Kind, x.Pool.NrOfInstances)
		}
	case x.Kind.IsGroup():
		if x.Group == nil || x.Pool != nil {
			return fmt.Errorf("%w: %s requires group settings only", errors.ErrConfigurationMalformed, x.Kind)
		}
		if len(x.Group.Paths) == 0 {
			return fmt.Errorf("%w: %s declared no routee paths", errors.ErrConfigurationMalformed, x.Kind)
		}
	default:
		return fmt.Errorf("%w: router kind is not set", errors.ErrConfigurationMalformed)
	}
	return nil
}

// Copy returns a deep copy so that resolved configurations cannot alias the
// caller's or the snapshot's slices.
func (x RouterConfig) Copy() RouterConfig {
	out := RouterConfig{Kind: x.Kind}
	if x.Pool != nil {
		pool := *x.Pool
		out.Pool = &pool
	}
	if x.Group != nil {
		paths := make([]address.Path, len(x.Group.Paths))
		copy(paths, x.Group.Paths)
		out.Group = &GroupConfig{Paths: paths}
	}
	return out
}
