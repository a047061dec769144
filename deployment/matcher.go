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
	"sort"

	"github.com/gokka/gokka/address"
)

// Matcher locates the single best-matching deployment entry for an actor
// path. It is built once from a configuration snapshot and is immutable
// afterwards, so Match is safe for concurrent use without synchronization.
//
// Specificity order: an exact entry always beats a wildcard entry; among
// wildcard entries the longest literal prefix wins.
type Matcher struct {
	exact     map[string]*Entry
	wildcards []*Entry
}

// NewMatcher builds a matcher over the given deployment entries.
func NewMatcher(entries []*Entry) *Matcher {
	matcher := &Matcher{
		exact: make(map[string]*Entry, len(entries)),
	}
	for _, entry := range entries {
		if entry.Pattern.Exact() {
			matcher.exact[entry.Pattern.Base().String()] = entry
			continue
		}
		matcher.wildcards = append(matcher.wildcards, entry)
	}
	// longest literal prefix first; ties broken lexically for determinism
	sort.SliceStable(matcher.wildcards, func(i, j int) bool {
		left, right := matcher.wildcards[i].Pattern.Base(), matcher.wildcards[j].Pattern.Base()
		if left.Depth() != right.Depth() {
			return left.Depth() > right.Depth()
		}
		return left.String() < right.String()
	})
	return matcher
}

// Match returns the deployment entry the given path falls under, or false
// when no pattern matches.
func (x *Matcher) Match(path address.Path) (*Entry, bool) {
	if entry, ok := x.exact[path.String()]; ok {
		return entry, true
	}
	for _, entry := range x.wildcards {
		if entry.Pattern.Matches(path) {
			return entry, true
		}
	}
	return nil, false
}
