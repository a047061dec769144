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
	"testing"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gokka/gokka/address"
	"github.com/gokka/gokka/deployment"
	"github.com/gokka/gokka/errors"
	"github.com/gokka/gokka/log"
	"github.com/gokka/gokka/router"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewActorSystem(t *testing.T) {
	t.Run("requires a name", func(t *testing.T) {
		_, err := NewActorSystem("")
		require.ErrorIs(t, err, errors.ErrNameRequired)
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		_, err := NewActorSystem("-bad name-")
		require.ErrorIs(t, err, errors.ErrNameRequired)
	})

	t.Run("malformed deployment fails creation", func(t *testing.T) {
		k := koanf.New(".")
		require.NoError(t, k.Load(rawbytes.Provider([]byte(`
gokka:
  actor:
    deployment:
      /user/service1:
        router: random-group
        nr-of-instances: 3
`)), yaml.Parser()))

		_, err := NewActorSystem("badSys", WithKoanf(k))
		require.ErrorIs(t, err, errors.ErrConfigurationMalformed)
	})
}

func TestSpawnPlain(t *testing.T) {
	t.Run("plain actor processes messages", func(t *testing.T) {
		system := startTestSystem(t)
		rec := newRecorder()

		pid, err := system.Spawn(context.TODO(), "service1", NewProps(rec.factory))
		require.NoError(t, err)
		assert.Equal(t, "/user/service1", pid.Path().String())
		assert.True(t, pid.IsRunning())
		assert.Nil(t, pid.Router())

		require.NoError(t, pid.Tell(context.TODO(), doWork{}))
		require.Eventually(t, func() bool {
			return rec.total.Load() == 1
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("introspecting a plain actor", func(t *testing.T) {
		system := startTestSystem(t)

		pid, err := system.Spawn(context.TODO(), "plain", NewProps(newRecorder().factory))
		require.NoError(t, err)

		_, err = system.EffectiveRouterConfig(pid)
		require.ErrorIs(t, err, errors.ErrNotARouter)
	})

	t.Run("duplicate name", func(t *testing.T) {
		system := startTestSystem(t)
		rec := newRecorder()

		_, err := system.Spawn(context.TODO(), "dup", NewProps(rec.factory))
		require.NoError(t, err)
		_, err = system.Spawn(context.TODO(), "dup", NewProps(rec.factory))
		require.ErrorIs(t, err, errors.ErrActorAlreadyExists)
	})

	t.Run("anonymous name is generated", func(t *testing.T) {
		system := startTestSystem(t)

		pid, err := system.Spawn(context.TODO(), "", NewProps(newRecorder().factory))
		require.NoError(t, err)
		assert.NotEmpty(t, pid.Name())
	})

	t.Run("system must be started", func(t *testing.T) {
		system, err := NewActorSystem("cold")
		require.NoError(t, err)

		_, err = system.Spawn(context.TODO(), "x", NewProps(newRecorder().factory))
		require.ErrorIs(t, err, errors.ErrActorSystemNotStarted)
	})
}

func TestSpawnPool(t *testing.T) {
	t.Run("code default survives without configuration", func(t *testing.T) {
		system := startTestSystem(t)
		rec := newRecorder()

		pid, err := system.Spawn(context.TODO(), "pool", NewProps(rec.factory,
			WithRouter(deployment.PoolSpec{Kind: deployment.RoundRobinPool, NrOfInstances: 12})))
		require.NoError(t, err)

		config, err := system.EffectiveRouterConfig(pid)
		require.NoError(t, err)
		assert.Equal(t, deployment.RoundRobinPool, config.Kind)
		require.NotNil(t, config.Pool)
		assert.Equal(t, 12, config.Pool.NrOfInstances)

		routees, ok := pid.Router().Routees()
		require.True(t, ok)
		assert.Len(t, routees, 12)
	})

	t.Run("routees are deterministic children of the router", func(t *testing.T) {
		system := startTestSystem(t)

		pid, err := system.Spawn(context.TODO(), "pool", NewProps(newRecorder().factory,
			WithRouter(deployment.PoolSpec{Kind: deployment.RoundRobinPool, NrOfInstances: 3})))
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			routee, ok := system.Lookup(address.MustParse(fmt.Sprintf("/user/pool/routee-pool-%d", i)))
			require.True(t, ok)
			assert.True(t, routee.Path().IsDescendantOf(pid.Path()))
		}
	})

	t.Run("round robin distributes evenly", func(t *testing.T) {
		system := startTestSystem(t)
		rec := newRecorder()

		pid, err := system.Spawn(context.TODO(), "pool", NewProps(rec.factory,
			WithRouter(deployment.PoolSpec{Kind: deployment.RoundRobinPool, NrOfInstances: 3})))
		require.NoError(t, err)

		for i := 0; i < 6; i++ {
			require.NoError(t, pid.Tell(context.TODO(), doWork{}))
		}

		require.Eventually(t, func() bool {
			return rec.total.Load() == 6
		}, time.Second, 5*time.Millisecond)

		for i := 0; i < 3; i++ {
			assert.EqualValues(t, 2, rec.countAt(fmt.Sprintf("/user/pool/routee-pool-%d", i)))
		}
	})

	t.Run("broadcast reaches every routee", func(t *testing.T) {
		system := startTestSystem(t)
		rec := newRecorder()

		pid, err := system.Spawn(context.TODO(), "cast", NewProps(rec.factory,
			WithRouter(deployment.PoolSpec{Kind: deployment.BroadcastPool, NrOfInstances: 4})))
		require.NoError(t, err)

		require.NoError(t, pid.Tell(context.TODO(), doWork{}))
		require.Eventually(t, func() bool {
			return rec.total.Load() == 4
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("invalid pool size fails synchronously", func(t *testing.T) {
		system := startTestSystem(t)

		_, err := system.Spawn(context.TODO(), "pool", NewProps(newRecorder().factory,
			WithRouter(deployment.PoolSpec{Kind: deployment.RandomPool})))
		require.ErrorIs(t, err, errors.ErrInvalidRouterPoolSize)

		_, ok := system.Lookup(address.MustParse("/user/pool"))
		assert.False(t, ok)
	})

	t.Run("kill router kills its routees", func(t *testing.T) {
		system := startTestSystem(t)

		pid, err := system.Spawn(context.TODO(), "pool", NewProps(newRecorder().factory,
			WithRouter(deployment.PoolSpec{Kind: deployment.RoundRobinPool, NrOfInstances: 2})))
		require.NoError(t, err)

		require.NoError(t, system.Kill(context.TODO(), pid))
		_, ok := system.Lookup(address.MustParse("/user/pool"))
		assert.False(t, ok)
		_, ok = system.Lookup(address.MustParse("/user/pool/routee-pool-0"))
		assert.False(t, ok)
	})
}

func TestConfigurationPrecedence(t *testing.T) {
	t.Run("configuration overrides code default in kind and size", func(t *testing.T) {
		config, err := deployment.FromYAML([]byte(`
gokka:
  actor:
    deployment:
      /user/service1:
        router: random-pool
        nr-of-instances: 4
`))
		require.NoError(t, err)
		system := startTestSystem(t, WithDeployment(config))

		pid, err := system.Spawn(context.TODO(), "service1", NewProps(newRecorder().factory,
			WithRouter(deployment.PoolSpec{Kind: deployment.RoundRobinPool, NrOfInstances: 12})))
		require.NoError(t, err)

		effective, err := system.EffectiveRouterConfig(pid)
		require.NoError(t, err)
		assert.Equal(t, deployment.RandomPool, effective.Kind)
		assert.Equal(t, 4, effective.Pool.NrOfInstances)
	})

	t.Run("configuration overrides explicit deploy outright", func(t *testing.T) {
		config, err := deployment.FromYAML([]byte(`
gokka:
  actor:
    deployment:
      /user/service1:
        router: broadcast-pool
        nr-of-instances: 2
`))
		require.NoError(t, err)
		system := startTestSystem(t, WithDeployment(config))

		pid, err := system.SpawnWithDeploy(context.TODO(), "service1",
			NewProps(newRecorder().factory),
			deployment.PoolSpec{Kind: deployment.RoundRobinPool, NrOfInstances: 9})
		require.NoError(t, err)

		effective, err := system.EffectiveRouterConfig(pid)
		require.NoError(t, err)
		assert.Equal(t, deployment.BroadcastPool, effective.Kind)
		assert.Equal(t, 2, effective.Pool.NrOfInstances)
	})

	t.Run("explicit deploy beats code default", func(t *testing.T) {
		system := startTestSystem(t)

		pid, err := system.SpawnWithDeploy(context.TODO(), "svc",
			NewProps(newRecorder().factory,
				WithRouter(deployment.PoolSpec{Kind: deployment.RoundRobinPool, NrOfInstances: 12})),
			deployment.PoolSpec{Kind: deployment.RandomPool, NrOfInstances: 2})
		require.NoError(t, err)

		effective, err := system.EffectiveRouterConfig(pid)
		require.NoError(t, err)
		assert.Equal(t, deployment.RandomPool, effective.Kind)
		assert.Equal(t, 2, effective.Pool.NrOfInstances)
	})

	t.Run("pool dispatcher substitution resolves at creation", func(t *testing.T) {
		k := koanf.New(".")
		require.NoError(t, k.Load(rawbytes.Provider([]byte(`
gokka:
  actor:
    default-dispatcher:
      throughput: 5
    deployment:
      /user/service1:
        router: random-pool
        nr-of-instances: 2
        pool-dispatcher: ${gokka.actor.default-dispatcher}
`)), yaml.Parser()))
		system := startTestSystem(t, WithKoanf(k))

		pid, err := system.Spawn(context.TODO(), "service1", NewProps(newRecorder().factory))
		require.NoError(t, err)

		effective, err := system.EffectiveRouterConfig(pid)
		require.NoError(t, err)
		assert.True(t, effective.Pool.UsePoolDispatcher)
		assert.Equal(t, "${gokka.actor.default-dispatcher}", effective.Pool.DispatcherID)
	})

	t.Run("inline pool dispatcher block resolves at creation", func(t *testing.T) {
		k := koanf.New(".")
		require.NoError(t, k.Load(rawbytes.Provider([]byte(`
gokka:
  actor:
    deployment:
      /user/service1:
        router: round-robin-pool
        nr-of-instances: 2
        pool-dispatcher:
          throughput: 7
`)), yaml.Parser()))
		system := startTestSystem(t, WithKoanf(k))

		pid, err := system.Spawn(context.TODO(), "service1", NewProps(newRecorder().factory))
		require.NoError(t, err)

		effective, err := system.EffectiveRouterConfig(pid)
		require.NoError(t, err)
		assert.True(t, effective.Pool.UsePoolDispatcher)
		assert.Equal(t, "gokka.actor.deployment./user/service1.pool-dispatcher", effective.Pool.DispatcherID)
	})

	t.Run("unresolvable pool dispatcher fails synchronously", func(t *testing.T) {
		k := koanf.New(".")
		require.NoError(t, k.Load(rawbytes.Provider([]byte(`
gokka:
  actor:
    deployment:
      /user/service1:
        router: random-pool
        nr-of-instances: 2
        pool-dispatcher: ${gokka.actor.missing-dispatcher}
`)), yaml.Parser()))
		system := startTestSystem(t, WithKoanf(k))

		_, err := system.Spawn(context.TODO(), "service1", NewProps(newRecorder().factory))
		require.ErrorIs(t, err, errors.ErrDispatcherNotFound)

		_, ok := system.Lookup(address.MustParse("/user/service1"))
		assert.False(t, ok)
	})

	t.Run("from config with no entry fails synchronously", func(t *testing.T) {
		system := startTestSystem(t)

		_, err := system.Spawn(context.TODO(), "orphan", NewProps(newRecorder().factory,
			WithRouter(deployment.FromConfig())))
		require.ErrorIs(t, err, errors.ErrConfigurationIncomplete)
	})

	t.Run("wildcard entry applies to any child of its base", func(t *testing.T) {
		config, err := deployment.FromYAML([]byte(`
gokka:
  actor:
    deployment:
      /user/*:
        router: round-robin-pool
        nr-of-instances: 2
      /user/special:
        router: random-pool
        nr-of-instances: 3
`))
		require.NoError(t, err)
		system := startTestSystem(t, WithDeployment(config))

		anything, err := system.Spawn(context.TODO(), "anything", NewProps(newRecorder().factory))
		require.NoError(t, err)
		effective, err := system.EffectiveRouterConfig(anything)
		require.NoError(t, err)
		assert.Equal(t, deployment.RoundRobinPool, effective.Kind)
		assert.Equal(t, 2, effective.Pool.NrOfInstances)

		special, err := system.Spawn(context.TODO(), "special", NewProps(newRecorder().factory))
		require.NoError(t, err)
		effective, err = system.EffectiveRouterConfig(special)
		require.NoError(t, err)
		assert.Equal(t, deployment.RandomPool, effective.Kind)
		assert.Equal(t, 3, effective.Pool.NrOfInstances)
	})
}

func TestSpawnGroup(t *testing.T) {
	groupYAML := []byte(`
gokka:
  actor:
    deployment:
      /user/segments:
        router: round-robin-group
        routees:
          paths:
            - /user/service1
            - /user/service2
`)

	t.Run("resolves pre-existing routees in configured order", func(t *testing.T) {
		config, err := deployment.FromYAML(groupYAML)
		require.NoError(t, err)
		system := startTestSystem(t, WithDeployment(config))
		rec := newRecorder()

		_, err = system.Spawn(context.TODO(), "service1", NewProps(rec.factory))
		require.NoError(t, err)
		_, err = system.Spawn(context.TODO(), "service2", NewProps(rec.factory))
		require.NoError(t, err)

		pid, err := system.Spawn(context.TODO(), "segments", NewProps(rec.factory))
		require.NoError(t, err)

		effective, err := system.AwaitRouterStarted(context.TODO(), pid, 5*time.Millisecond, time.Second)
		require.NoError(t, err)
		require.NotNil(t, effective.Group)
		require.Len(t, effective.Group.Paths, 2)
		assert.Equal(t, "/user/service1", effective.Group.Paths[0].String())
		assert.Equal(t, "/user/service2", effective.Group.Paths[1].String())

		routees, ok := pid.Router().Routees()
		require.True(t, ok)
		assert.Equal(t, "/user/service1", routees[0].String())
		assert.Equal(t, "/user/service2", routees[1].String())
	})

	t.Run("tolerates routees spawned after the router", func(t *testing.T) {
		config, err := deployment.FromYAML(groupYAML)
		require.NoError(t, err)
		system := startTestSystem(t, WithDeployment(config))
		rec := newRecorder()

		pid, err := system.Spawn(context.TODO(), "segments", NewProps(rec.factory))
		require.NoError(t, err)

		// the router is observable but not yet started
		_, err = system.EffectiveRouterConfig(pid)
		require.ErrorIs(t, err, errors.ErrRouterNotStarted)
		assert.Equal(t, router.Starting, pid.Router().State())

		_, err = system.Spawn(context.TODO(), "service1", NewProps(rec.factory))
		require.NoError(t, err)
		_, err = system.Spawn(context.TODO(), "service2", NewProps(rec.factory))
		require.NoError(t, err)

		_, err = system.AwaitRouterStarted(context.TODO(), pid, 5*time.Millisecond, time.Second)
		require.NoError(t, err)
	})

	t.Run("group dispatch reaches the configured actors", func(t *testing.T) {
		config, err := deployment.FromYAML(groupYAML)
		require.NoError(t, err)
		system := startTestSystem(t, WithDeployment(config))
		rec := newRecorder()

		_, err = system.Spawn(context.TODO(), "service1", NewProps(rec.factory))
		require.NoError(t, err)
		_, err = system.Spawn(context.TODO(), "service2", NewProps(rec.factory))
		require.NoError(t, err)

		pid, err := system.Spawn(context.TODO(), "segments", NewProps(rec.factory))
		require.NoError(t, err)
		_, err = system.AwaitRouterStarted(context.TODO(), pid, 5*time.Millisecond, time.Second)
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			require.NoError(t, pid.Tell(context.TODO(), doWork{}))
		}
		require.Eventually(t, func() bool {
			return rec.total.Load() == 4
		}, time.Second, 5*time.Millisecond)
		assert.EqualValues(t, 2, rec.countAt("/user/service1"))
		assert.EqualValues(t, 2, rec.countAt("/user/service2"))
	})

	t.Run("zero resolution interval falls back to the default", func(t *testing.T) {
		config, err := deployment.FromYAML(groupYAML)
		require.NoError(t, err)
		system := startTestSystem(t, WithDeployment(config),
			WithGroupResolutionInterval(0))
		rec := newRecorder()

		_, err = system.Spawn(context.TODO(), "service1", NewProps(rec.factory))
		require.NoError(t, err)
		_, err = system.Spawn(context.TODO(), "service2", NewProps(rec.factory))
		require.NoError(t, err)

		pid, err := system.Spawn(context.TODO(), "segments", NewProps(rec.factory))
		require.NoError(t, err)

		// a zero poll interval must not blow up the await either
		_, err = system.AwaitRouterStarted(context.TODO(), pid, 0, time.Second)
		require.NoError(t, err)
	})

	t.Run("unresolvable routee fails the router within the window", func(t *testing.T) {
		config, err := deployment.FromYAML(groupYAML)
		require.NoError(t, err)
		system := startTestSystem(t, WithDeployment(config))

		pid, err := system.Spawn(context.TODO(), "segments", NewProps(newRecorder().factory))
		require.NoError(t, err)

		_, err = system.AwaitRouterStarted(context.TODO(), pid, 10*time.Millisecond, 2*time.Second)
		require.ErrorIs(t, err, errors.ErrRouteeResolutionTimeout)
		assert.Equal(t, router.Failed, pid.Router().State())

		require.ErrorIs(t, pid.Tell(context.TODO(), doWork{}), errors.ErrRouteeResolutionTimeout)
	})
}

func TestStop(t *testing.T) {
	t.Run("stop shuts every actor down", func(t *testing.T) {
		system, err := NewActorSystem("stopper", WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		require.NoError(t, system.Start(context.TODO()))

		pid, err := system.Spawn(context.TODO(), "pool", NewProps(newRecorder().factory,
			WithRouter(deployment.PoolSpec{Kind: deployment.RoundRobinPool, NrOfInstances: 2})))
		require.NoError(t, err)

		require.NoError(t, system.Stop(context.TODO()))
		assert.False(t, pid.IsRunning())
		require.ErrorIs(t, pid.Tell(context.TODO(), doWork{}), errors.ErrDead)
	})

	t.Run("stopping a stopped system fails", func(t *testing.T) {
		system, err := NewActorSystem("stopper", WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		require.NoError(t, system.Start(context.TODO()))
		require.NoError(t, system.Stop(context.TODO()))
		require.ErrorIs(t, system.Stop(context.TODO()), errors.ErrActorSystemNotStarted)
	})
}
