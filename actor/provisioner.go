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
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/flowchartsman/retry"
	"go.uber.org/multierr"

	"github.com/gokka/gokka/address"
	"github.com/gokka/gokka/deployment"
	"github.com/gokka/gokka/dispatcher"
	"github.com/gokka/gokka/errors"
	"github.com/gokka/gokka/router"
)

// spawnRouter builds the router for the resolved configuration and
// provisions its routees. Pool routees are spawned synchronously before the
// creation call returns; group routees resolve in the background, since
// they depend on other actors' own startup.
func (x *ActorSystem) spawnRouter(ctx context.Context, path address.Path, props *Props, config deployment.RouterConfig) (*PID, error) {
	descriptor, err := router.Build(config)
	if err != nil {
		return nil, err
	}

	instance := router.NewInstance(descriptor)
	pid := newPID(path, props.factory(), 1)
	pid.routerInstance = instance

	if err := x.register(pid); err != nil {
		return nil, err
	}
	if err := pid.start(ctx); err != nil {
		x.deregister(pid)
		return nil, err
	}

	instance.MarkStarting()

	if config.Kind.IsPool() {
		if err := x.provisionPool(ctx, pid, props, config.Pool); err != nil {
			_ = x.Kill(ctx, pid)
			return nil, err
		}
		x.logger.Infof("spawned %s router %s with %d routees", config.Kind, path, config.Pool.NrOfInstances)
		return pid, nil
	}

	x.provisionGroup(pid, config.Group)
	x.logger.Infof("spawned %s router %s over %d paths", config.Kind, path, len(config.Group.Paths))
	return pid, nil
}

// provisionPool spawns the declared number of routees as children of the
// router, in index order, on the router's resolved dispatcher. The naming
// scheme is deterministic so that provisioning the same configuration twice
// produces the same children.
func (x *ActorSystem) provisionPool(ctx context.Context, routerPID *PID, props *Props, pool *deployment.PoolConfig) error {
	settings, err := dispatcher.Resolve(pool.DispatcherID, x.conf)
	if err != nil {
		return err
	}

	routees := make([]router.Routee, 0, pool.NrOfInstances)
	spawned := make([]*PID, 0, pool.NrOfInstances)
	for i := 0; i < pool.NrOfInstances; i++ {
		name := fmt.Sprintf("routee-%s-%d", routerPID.Name(), i)
		path, err := routerPID.Path().Child(name)
		if err != nil {
			return x.rollbackRoutees(ctx, spawned, err)
		}

		routee := newPID(path, props.factory(), settings.Throughput)
		if err := x.register(routee); err != nil {
			return x.rollbackRoutees(ctx, spawned, err)
		}
		if err := routee.start(ctx); err != nil {
			x.deregister(routee)
			return x.rollbackRoutees(ctx, spawned, err)
		}
		spawned = append(spawned, routee)
		routees = append(routees, routee)
	}

	routerPID.Router().Start(routees)
	return nil
}

func (x *ActorSystem) rollbackRoutees(ctx context.Context, spawned []*PID, cause error) error {
	err := cause
	for _, routee := range spawned {
		x.deregister(routee)
		err = multierr.Append(err, routee.shutdown(ctx))
	}
	return err
}

// provisionGroup resolves the configured routee paths into live references
// in the background, retrying with bounded backoff: a target actor may not
// exist yet at resolution time. When the window closes with paths still
// unresolved the router is marked failed with ErrRouteeResolutionTimeout.
func (x *ActorSystem) provisionGroup(routerPID *PID, group *deployment.GroupConfig) {
	paths := group.Paths
	pending := mapset.NewSet[string]()
	for _, path := range paths {
		pending.Add(path.String())
	}
	resolved := make(map[string]*PID, len(paths))

	x.provisioners.Add(1)
	go func() {
		defer x.provisioners.Done()

		attempts := int(x.groupTimeout/x.groupInterval) + 1
		retrier := retry.NewRetrier(attempts, x.groupInterval, x.groupInterval)
		err := retrier.Run(func() error {
			for _, raw := range pending.ToSlice() {
				pid, ok := x.Lookup(address.MustParse(raw))
				if !ok {
					continue
				}
				resolved[raw] = pid
				pending.Remove(raw)
			}
			if pending.Cardinality() > 0 {
				return fmt.Errorf("%w: waiting for %v", errors.ErrRouterNotStarted, pending.ToSlice())
			}
			return nil
		})
		if err != nil {
			failure := fmt.Errorf("%w: router %q could not resolve %v within %s",
				errors.ErrRouteeResolutionTimeout, routerPID.Path(), pending.ToSlice(), x.groupTimeout)
			routerPID.Router().Fail(failure)
			x.logger.Error(failure.Error())
			return
		}

		// publish in configured order
		routees := make([]router.Routee, 0, len(paths))
		for _, path := range paths {
			routees = append(routees, resolved[path.String()])
		}
		routerPID.Router().Start(routees)
		x.logger.Debugf("group router %s resolved %d routees", routerPID.Path(), len(routees))
	}()
}
