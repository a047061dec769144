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
	"strings"

	"github.com/gokka/gokka/address"
	"github.com/gokka/gokka/errors"
)

// wildcardSegment matches any single child segment when it is the last
// segment of a pattern.
const wildcardSegment = "*"

// Pattern is a deployment entry's key: either an exact actor path or a
// wildcard path whose trailing "*" segment matches any single child segment.
type Pattern struct {
	base     address.Path
	wildcard bool
	raw      string
}

// ParsePattern parses a path pattern string. A "*" is only permitted as the
// final segment; anywhere else the pattern is invalid.
func ParsePattern(s string) (Pattern, error) {
	if strings.HasSuffix(s, address.Separator+wildcardSegment) {
		base, err := address.Parse(strings.TrimSuffix(s, address.Separator+wildcardSegment))
		if err != nil {
			return Pattern{}, err
		}
		if containsWildcard(base) {
			return Pattern{}, fmt.Errorf("%w: %q may only use %q as the final segment", errors.ErrInvalidPath, s, wildcardSegment)
		}
		return Pattern{base: base, wildcard: true, raw: s}, nil
	}

	base, err := address.Parse(s)
	if err != nil {
		return Pattern{}, err
	}
	if containsWildcard(base) {
		return Pattern{}, fmt.Errorf("%w: %q may only use %q as the final segment", errors.ErrInvalidPath, s, wildcardSegment)
	}
	return Pattern{base: base, raw: s}, nil
}

func containsWildcard(path address.Path) bool {
	for _, segment := range path.Segments() {
		if segment == wildcardSegment {
			return true
		}
	}
	return false
}

// Exact returns true when the pattern carries no wildcard segment.
func (x Pattern) Exact() bool {
	return !x.wildcard
}

// Base returns the pattern's literal prefix: the full path for an exact
// pattern, the path with the trailing "*" stripped for a wildcard pattern.
func (x Pattern) Base() address.Path {
	return x.base
}

// Matches reports whether the given path falls under the pattern. An exact
// pattern matches only its own path. A wildcard pattern matches paths that
// are a direct child of its base: "/weird/*" matches "/weird/child1" but
// neither "/weird" itself nor "/weird/child1/grandchild".
func (x Pattern) Matches(path address.Path) bool {
	if x.wildcard {
		return path.Depth() == x.base.Depth()+1 && path.Parent().Equal(x.base)
	}
	return path.Equal(x.base)
}

// String returns the pattern as written in configuration.
func (x Pattern) String() string {
	return x.raw
}

// Entry is a parsed deployment configuration node: a path pattern bound to a
// router specification. Exactly one of NrOfInstances and RouteePaths is
// populated, matching the kind's pool/group nature.
type Entry struct {
	// Pattern is the entry's key.
	Pattern Pattern
	// Kind is the declared router variant.
	Kind Kind
	// NrOfInstances is the pool size. Pool kinds only.
	NrOfInstances int
	// RouteePaths lists the group's routees in dispatch order. Group kinds only.
	RouteePaths []address.Path
	// Dispatcher is the raw dispatcher reference: a configuration path or a
	// "${other.path}" substitution expression. May be empty.
	Dispatcher string
	// UsePoolDispatcher is true when the entry designates a dedicated pool
	// dispatcher, inline or via substitution.
	UsePoolDispatcher bool
}

// Validate checks the entry's shape against its declared kind. Violations
// surface at configuration-load time so that creation calls fail fast.
func (x *Entry) Validate() error {
	switch {
	case x.Kind.IsPool():
		if len(x.RouteePaths) > 0 {
			return fmt.Errorf("%w: %s entry %q declares routee paths", errors.ErrConfigurationMalformed, x.Kind, x.Pattern)
		}
		if x.NrOfInstances < 1 {
			return fmt.Errorf("%w: %s entry %q declares %d instances", errors.ErrInvalidRouterPoolSize, x.Kind, x.Pattern, x.NrOfInstances)
		}
	case x.Kind.IsGroup():
		if x.NrOfInstances != 0 {
			return fmt.Errorf("%w: %s entry %q declares nr-of-instances", errors.ErrConfigurationMalformed, x.Kind, x.Pattern)
		}
		if len(x.RouteePaths) == 0 {
			return fmt.Errorf("%w: %s entry %q declares no routee paths", errors.ErrConfigurationMalformed, x.Kind, x.Pattern)
		}
	default:
		return fmt.Errorf("%w: entry %q has no router kind", errors.ErrConfigurationMalformed, x.Pattern)
	}
	return nil
}

// routerConfig converts the entry into an effective router configuration.
func (x *Entry) routerConfig() RouterConfig {
	if x.Kind.IsGroup() {
		paths := make([]address.Path, len(x.RouteePaths))
		copy(paths, x.RouteePaths)
		return RouterConfig{
			Kind:  x.Kind,
			Group: &GroupConfig{Paths: paths},
		}
	}
	return RouterConfig{
		Kind: x.Kind,
		Pool: &PoolConfig{
			NrOfInstances:     x.NrOfInstances,
			DispatcherID:      x.Dispatcher,
			UsePoolDispatcher: x.UsePoolDispatcher,
		},
	}
}
