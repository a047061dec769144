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

// Package address provides the canonical representation of actor paths in a
// Gokka actor system.
//
// A Path identifies a single actor by its position in the actor hierarchy.
// The canonical textual representation is a slash-separated sequence of
// segments starting at the root:
//
//	/user/service1
//	/user/parent/child
//
// Paths are immutable once created and safe for concurrent use.
package address

import (
	"fmt"
	"strings"

	"github.com/gokka/gokka/errors"
)

// Separator is the path segment separator.
const Separator = "/"

// Path represents the logical path of an actor within an actor system.
// The zero value is the root path.
type Path struct {
	segments []string
	str      string
}

// RootPath returns the root path "/".
func RootPath() Path {
	return Path{str: Separator}
}

// Parse parses the given string into a Path.
//
// A valid path starts with "/" and contains no empty segments. The root
// path "/" is valid. Parse returns ErrInvalidPath when the input does not
// meet these requirements.
func Parse(s string) (Path, error) {
	if s == "" || !strings.HasPrefix(s, Separator) {
		return Path{}, fmt.Errorf("%w: %q must start with %q", errors.ErrInvalidPath, s, Separator)
	}

	if s == Separator {
		return RootPath(), nil
	}

	segments := strings.Split(strings.TrimPrefix(s, Separator), Separator)
	for _, segment := range segments {
		if segment == "" {
			return Path{}, fmt.Errorf("%w: %q contains an empty segment", errors.ErrInvalidPath, s)
		}
	}

	return Path{
		segments: segments,
		str:      Separator + strings.Join(segments, Separator),
	}, nil
}

// MustParse parses the given string into a Path and panics when the string
// is not a valid path. It is meant for static path literals.
func MustParse(s string) Path {
	path, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return path
}

// Segments returns a copy of the path segments in root-to-leaf order.
// The root path has no segments.
func (x Path) Segments() []string {
	out := make([]string, len(x.segments))
	copy(out, x.segments)
	return out
}

// Name returns the last segment of the path, which is the actor's name.
// The root path has an empty name.
func (x Path) Name() string {
	if len(x.segments) == 0 {
		return ""
	}
	return x.segments[len(x.segments)-1]
}

// Parent returns the parent path. The parent of the root path is the root
// path itself.
func (x Path) Parent() Path {
	if len(x.segments) <= 1 {
		return RootPath()
	}
	parent := x.segments[:len(x.segments)-1]
	return Path{
		segments: parent,
		str:      Separator + strings.Join(parent, Separator),
	}
}

// Child returns a new path with the given name appended as the last segment.
func (x Path) Child(name string) (Path, error) {
	if name == "" || strings.Contains(name, Separator) {
		return Path{}, fmt.Errorf("%w: invalid child segment %q", errors.ErrInvalidPath, name)
	}
	segments := make([]string, 0, len(x.segments)+1)
	segments = append(segments, x.segments...)
	segments = append(segments, name)
	return Path{
		segments: segments,
		str:      Separator + strings.Join(segments, Separator),
	}, nil
}

// Depth returns the number of segments in the path. The root path has
// depth zero.
func (x Path) Depth() int {
	return len(x.segments)
}

// IsRoot returns true when the path is the root path.
func (x Path) IsRoot() bool {
	return len(x.segments) == 0
}

// IsDescendantOf returns true when the path sits strictly below the given
// ancestor in the hierarchy.
func (x Path) IsDescendantOf(ancestor Path) bool {
	if len(x.segments) <= len(ancestor.segments) {
		return false
	}
	for i, segment := range ancestor.segments {
		if x.segments[i] != segment {
			return false
		}
	}
	return true
}

// Equal returns true when both paths denote the same location in the
// hierarchy.
func (x Path) Equal(other Path) bool {
	return x.String() == other.String()
}

// String returns the canonical textual representation of the path.
func (x Path) String() string {
	if x.str == "" {
		return Separator
	}
	return x.str
}
