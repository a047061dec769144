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

package actor

import (
	"github.com/gokka/gokka/deployment"
)

// Props describe how to create an actor: the factory producing its behavior
// plus creation-time settings such as the code-level router default.
type Props struct {
	factory    func() Actor
	routerSpec deployment.RouterSpec
}

// PropsOption configures Props.
type PropsOption interface {
	// Apply sets the option value on the props.
	Apply(props *Props)
}

var _ PropsOption = propsOption(nil)

type propsOption func(props *Props)

func (f propsOption) Apply(props *Props) {
	f(props)
}

// NewProps creates Props from the given actor factory.
func NewProps(factory func() Actor, opts ...PropsOption) *Props {
	props := &Props{factory: factory}
	for _, opt := range opts {
		opt.Apply(props)
	}
	return props
}

// WithRouter sets the code-level router specification. It is the lowest
// precedence source: a deployment configuration entry matching the actor's
// path, or an explicit deploy on the creation call, overrides it outright.
func WithRouter(spec deployment.RouterSpec) PropsOption {
	return propsOption(func(props *Props) {
		props.routerSpec = spec
	})
}

// RouterSpec returns the code-level router specification, or nil.
func (x *Props) RouterSpec() deployment.RouterSpec {
	return x.routerSpec
}
