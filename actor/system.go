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
	stderrors "errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/google/uuid"
	"github.com/knadh/koanf/v2"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/gokka/gokka/address"
	"github.com/gokka/gokka/deployment"
	"github.com/gokka/gokka/dispatcher"
	"github.com/gokka/gokka/errors"
	"github.com/gokka/gokka/log"
)

var (
	userRoot = address.MustParse("/user")

	nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_]*$`)
)

const (
	defaultGroupInterval = 20 * time.Millisecond
	defaultGroupTimeout  = 3 * time.Second
)

// ActorSystem hosts a hierarchy of actors and applies the deployment
// configuration whenever one of them is created. The deployment snapshot is
// taken once at system creation and never changes afterwards, so concurrent
// creations at different paths resolve against the same immutable view.
type ActorSystem struct {
	name        string
	logger      log.Logger
	conf        *koanf.Koanf
	deployments *deployment.Config
	resolver    *deployment.Resolver

	mu     sync.RWMutex
	actors map[string]*PID

	started atomic.Bool

	groupInterval time.Duration
	groupTimeout  time.Duration
	provisioners  sync.WaitGroup
}

// NewActorSystem creates an actor system with the given name.
func NewActorSystem(name string, opts ...Option) (*ActorSystem, error) {
	if name == "" {
		return nil, errors.ErrNameRequired
	}
	if !nameRegex.MatchString(name) {
		return nil, fmt.Errorf("%w: %q must contain only word characters", errors.ErrNameRequired, name)
	}

	system := &ActorSystem{
		name:          name,
		logger:        log.DefaultLogger,
		actors:        make(map[string]*PID),
		groupInterval: defaultGroupInterval,
		groupTimeout:  defaultGroupTimeout,
	}
	for _, opt := range opts {
		opt.Apply(system)
	}

	if system.groupInterval <= 0 {
		system.groupInterval = defaultGroupInterval
	}
	if system.groupTimeout <= 0 {
		system.groupTimeout = defaultGroupTimeout
	}

	if system.deployments == nil {
		if system.conf != nil {
			deployments, err := deployment.FromKoanf(system.conf)
			if err != nil {
				return nil, err
			}
			system.deployments = deployments
		} else {
			system.deployments = deployment.Empty()
		}
	}
	system.resolver = deployment.NewResolver(system.deployments)
	return system, nil
}

// Name returns the actor system name.
func (x *ActorSystem) Name() string {
	return x.name
}

// Logger returns the logger the actor system uses.
func (x *ActorSystem) Logger() log.Logger {
	return x.logger
}

// Start starts the actor system.
func (x *ActorSystem) Start(context.Context) error {
	x.started.Store(true)
	x.logger.Infof("actor system %s started", x.name)
	return nil
}

// Stop shuts down every actor and waits for in-flight group provisioning to
// settle.
func (x *ActorSystem) Stop(ctx context.Context) error {
	if !x.started.CompareAndSwap(true, false) {
		return errors.ErrActorSystemNotStarted
	}

	x.provisioners.Wait()

	x.mu.Lock()
	pids := make([]*PID, 0, len(x.actors))
	for _, pid := range x.actors {
		pids = append(pids, pid)
	}
	x.actors = make(map[string]*PID)
	x.mu.Unlock()

	var err error
	for _, pid := range pids {
		err = multierr.Append(err, pid.shutdown(ctx))
	}
	x.logger.Infof("actor system %s stopped", x.name)
	return err
}

// Spawn creates an actor under /user with the given name. The actor's
// router, if any, is resolved from the deployment configuration and the
// code-level default carried by the props; the configuration always wins
// outright. Configuration errors surface here, synchronously, never at
// first message send.
//
// An empty name is replaced with a generated one.
func (x *ActorSystem) Spawn(ctx context.Context, name string, props *Props) (*PID, error) {
	return x.spawn(ctx, name, props, nil)
}

// SpawnWithDeploy creates an actor under /user with an explicit router
// deploy. A deployment configuration entry matching the actor's path still
// overrides the explicit deploy in full, kind included.
func (x *ActorSystem) SpawnWithDeploy(ctx context.Context, name string, props *Props, spec deployment.RouterSpec) (*PID, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: explicit deploy is nil", errors.ErrConfigurationIncomplete)
	}
	return x.spawn(ctx, name, props, spec)
}

// Lookup returns the PID registered at the given path.
func (x *ActorSystem) Lookup(path address.Path) (*PID, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	pid, ok := x.actors[path.String()]
	return pid, ok
}

// EffectiveRouterConfig returns the effective router configuration attached
// to the given actor. While the router is still starting it returns the
// transient errors.ErrRouterNotStarted, which callers are expected to retry
// with backoff; see AwaitRouterStarted.
func (x *ActorSystem) EffectiveRouterConfig(pid *PID) (deployment.RouterConfig, error) {
	if pid == nil {
		return deployment.RouterConfig{}, errors.ErrActorNotFound
	}
	registered, ok := x.Lookup(pid.Path())
	if !ok || registered != pid {
		return deployment.RouterConfig{}, fmt.Errorf("%w: %q", errors.ErrActorNotFound, pid.Path())
	}
	instance := pid.Router()
	if instance == nil {
		return deployment.RouterConfig{}, fmt.Errorf("%w: %q", errors.ErrNotARouter, pid.Path())
	}
	return instance.Config()
}

// AwaitRouterStarted polls the actor's router with the given interval until
// it either starts, fails, or the timeout elapses. A non-positive interval
// is floored to one millisecond. Exceeding the timeout is reported as the
// transient not-started error of the last poll.
func (x *ActorSystem) AwaitRouterStarted(ctx context.Context, pid *PID, interval, timeout time.Duration) (deployment.RouterConfig, error) {
	if interval <= 0 {
		interval = time.Millisecond
	}
	attempts := int(timeout/interval) + 1

	var (
		config   deployment.RouterConfig
		terminal error
	)
	retrier := retry.NewRetrier(attempts, interval, interval)
	err := retrier.RunContext(ctx, func(context.Context) error {
		resolved, err := x.EffectiveRouterConfig(pid)
		switch {
		case err == nil:
			config = resolved
			return nil
		case stderrors.Is(err, errors.ErrRouterNotStarted):
			return err
		default:
			// deterministic failure, pointless to retry
			terminal = err
			return nil
		}
	})
	if terminal != nil {
		return deployment.RouterConfig{}, terminal
	}
	if err != nil {
		return deployment.RouterConfig{}, err
	}
	return config, nil
}

// Kill stops the actor at the given path together with its descendants
// (a pool router's routees die with the router).
func (x *ActorSystem) Kill(ctx context.Context, pid *PID) error {
	if pid == nil {
		return errors.ErrActorNotFound
	}

	x.mu.Lock()
	victims := make([]*PID, 0, 1)
	for key, candidate := range x.actors {
		if candidate == pid || candidate.Path().IsDescendantOf(pid.Path()) {
			victims = append(victims, candidate)
			delete(x.actors, key)
		}
	}
	x.mu.Unlock()

	if len(victims) == 0 {
		return fmt.Errorf("%w: %q", errors.ErrActorNotFound, pid.Path())
	}

	var err error
	for _, victim := range victims {
		err = multierr.Append(err, victim.shutdown(ctx))
	}
	return err
}

func (x *ActorSystem) spawn(ctx context.Context, name string, props *Props, explicit deployment.RouterSpec) (*PID, error) {
	if !x.started.Load() {
		return nil, errors.ErrActorSystemNotStarted
	}
	if name == "" {
		name = uuid.NewString()
	}

	path, err := userRoot.Child(name)
	if err != nil {
		return nil, err
	}

	_, matched := x.deployments.Match(path)
	if !matched && props.RouterSpec() == nil && explicit == nil {
		// no router source involved at all: a plain actor
		return x.spawnPlain(ctx, path, props)
	}

	config, err := x.resolver.Resolve(path, props.RouterSpec(), explicit)
	if err != nil {
		return nil, err
	}
	return x.spawnRouter(ctx, path, props, config)
}

func (x *ActorSystem) spawnPlain(ctx context.Context, path address.Path, props *Props) (*PID, error) {
	settings, err := dispatcher.Resolve("", x.conf)
	if err != nil {
		return nil, err
	}

	pid := newPID(path, props.factory(), settings.Throughput)
	if err := x.register(pid); err != nil {
		return nil, err
	}
	if err := pid.start(ctx); err != nil {
		x.deregister(pid)
		return nil, err
	}
	x.logger.Debugf("spawned actor %s", path)
	return pid, nil
}

func (x *ActorSystem) register(pid *PID) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	key := pid.Path().String()
	if _, ok := x.actors[key]; ok {
		return fmt.Errorf("%w: %q", errors.ErrActorAlreadyExists, key)
	}
	x.actors[key] = pid
	return nil
}

func (x *ActorSystem) deregister(pid *PID) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.actors, pid.Path().String())
}
