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
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/gokka/gokka/log"
)

type doWork struct{}

// recorder counts processed messages per receiving actor path.
type recorder struct {
	total   *atomic.Int64
	perPath *sync.Map
}

func newRecorder() *recorder {
	return &recorder{
		total:   atomic.NewInt64(0),
		perPath: new(sync.Map),
	}
}

func (x *recorder) factory() Actor {
	return &worker{recorder: x}
}

func (x *recorder) countAt(path string) int64 {
	counter, ok := x.perPath.Load(path)
	if !ok {
		return 0
	}
	return counter.(*atomic.Int64).Load()
}

// worker is a test actor that records every message it processes.
type worker struct {
	recorder *recorder
}

var _ Actor = (*worker)(nil)

func (x *worker) PreStart(context.Context) error {
	return nil
}

func (x *worker) Receive(ctx *ReceiveContext) {
	switch ctx.Message().(type) {
	case doWork:
		x.recorder.total.Inc()
		counter, _ := x.recorder.perPath.LoadOrStore(ctx.Self().Path().String(), atomic.NewInt64(0))
		counter.(*atomic.Int64).Inc()
	}
}

func (x *worker) PostStop(context.Context) error {
	return nil
}

func startTestSystem(t *testing.T, opts ...Option) *ActorSystem {
	t.Helper()
	opts = append([]Option{
		WithLogger(log.DiscardLogger),
		WithGroupResolutionInterval(5 * time.Millisecond),
		WithGroupResolutionTimeout(200 * time.Millisecond),
	}, opts...)

	system, err := NewActorSystem("testSys", opts...)
	require.NoError(t, err)
	require.NoError(t, system.Start(context.TODO()))
	t.Cleanup(func() {
		_ = system.Stop(context.TODO())
	})
	return system
}
