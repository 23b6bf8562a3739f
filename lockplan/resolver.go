// Copyright 2025 The Lockplan Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package lockplan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/engtools/lockplan/notify"
)

// A Resolver is the compiled, reusable acquisition routine for one
// declaration. It holds no lock state of its own; each call to
// [Resolver.Resolve] or [Resolver.Schedule] performs an independent
// acquisition.
//
// A Resolver is safe for concurrent use.
type Resolver struct {
	events *Events
	name   string
	steps  []step
}

// SetEvents allows monitoring callbacks to be injected into the
// Resolver. This method should be called prior to any call to
// [Resolver.Resolve] or [Resolver.Schedule].
func (r *Resolver) SetEvents(events *Events) {
	r.events = events
}

// Name returns the name of the declaration the resolver was compiled
// from.
func (r *Resolver) Name() string { return r.name }

// Fields returns the declaration's fields in canonical acquisition
// order.
func (r *Resolver) Fields() []Field {
	fields := make([]Field, len(r.steps))
	for i, s := range r.steps {
		fields[i] = s.field
	}
	return fields
}

// Resolve acquires every declared lock and returns the bundle holding
// their guards.
//
// Acquisition is strictly sequential: the lock at canonical position
// i+1 is not requested until position i has been acquired. At any
// instant the call is therefore blocked on at most one lock, and that
// lock is the next one in the global canonical order, which is what
// rules out circular waits between overlapping resolvers.
//
// If acquisition fails partway, guards already acquired are released in
// reverse order and the failure is returned as an [*AcquisitionError].
// If the context is canceled partway, guards already acquired are
// released and the context's cause is returned. No guard leaks on
// either path.
func (r *Resolver) Resolve(ctx context.Context) (*Bundle, error) {
	start := time.Now()
	guards := make([]Guard, 0, len(r.steps))
	for i, s := range r.steps {
		if ctx.Err() != nil {
			releaseAll(guards)
			return nil, context.Cause(ctx)
		}

		waitStart := time.Now()
		guard, err := tryResolve(ctx, s.recipe)
		if err != nil {
			releaseAll(guards)
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return nil, context.Cause(ctx)
			}
			aErr := &AcquisitionError{
				Position: i,
				Field:    s.field.Name,
				Key:      s.lock,
				cause:    err,
			}
			r.events.doAcquireFailed(r.name, s.field.Name, i, err)
			return nil, aErr
		}
		guards = append(guards, guard)
		r.events.doAcquired(r.name, s.field.Name, i, time.Since(waitStart))
	}

	bundle := r.newBundle(guards)
	r.events.doResolved(r.name, time.Since(start))
	return bundle, nil
}

// Schedule begins acquisition on the given runner. If runner is nil,
// acquisition runs on a new goroutine under [context.Background].
//
// The returned [Outcome] progresses from queued through executing to
// either a bundle-bearing success or an error. The cancel function may
// be called to abandon the acquisition; guards acquired before the
// cancellation takes effect are released as part of unwinding, and the
// outcome reports [ErrScheduleCancel] via its error's cause chain.
func (r *Resolver) Schedule(runner Runner) (outcome Outcome, cancel func()) {
	if runner == nil {
		runner = GoRunner(context.Background())
	}

	out := notify.VarOf(queued)

	var mu sync.Mutex
	var cancelCtx func()
	canceled := false

	work := func(ctx context.Context) {
		ctx, cause := context.WithCancelCause(ctx)
		defer cause(nil)

		mu.Lock()
		if canceled {
			mu.Unlock()
			out.Set(&Status{err: ErrScheduleCancel})
			return
		}
		cancelCtx = func() { cause(ErrScheduleCancel) }
		mu.Unlock()

		out.Set(executing)
		bundle, err := r.Resolve(ctx)
		if err != nil {
			out.Set(&Status{err: err})
			return
		}
		out.Set(&Status{bundle: bundle})
	}

	if err := runner.Go(work); err != nil {
		out.Set(&Status{err: err})
		return out, func() {}
	}

	return out, func() {
		mu.Lock()
		defer mu.Unlock()
		if canceled {
			return
		}
		canceled = true
		if cancelCtx != nil {
			cancelCtx()
			return
		}
		// The work has not started, and some runners abandon queued
		// callbacks outright, so the outcome must be completed here.
		// If the work does start later it re-checks the flag and
		// publishes the same result.
		out.Set(&Status{err: ErrScheduleCancel})
	}
}

func (r *Resolver) newBundle(guards []Guard) *Bundle {
	b := &Bundle{
		name:    r.name,
		events:  r.events,
		ordered: guards,
		fields:  r.Fields(),
		byName:  make(map[string]Guard, len(guards)),
		caps:    make(map[string]any),
	}
	for i, s := range r.steps {
		b.byName[s.field.Name] = guards[i]
	}
	// Capability conflicts were rejected at compile time, so binding
	// order is immaterial.
	for _, s := range r.steps {
		for _, trait := range s.recipe.Traits {
			b.caps[trait.Capability] = trait.Bind(b, s.field.Name)
		}
	}
	return b
}

// tryResolve invokes the recipe callback with a panic handler so that a
// misbehaving recipe cannot leak already-acquired guards.
func tryResolve(ctx context.Context, recipe Recipe) (guard Guard, err error) {
	defer func() {
		x := recover()
		switch t := x.(type) {
		case nil:
		// Success.
		case error:
			guard, err = nil, t
		default:
			guard, err = nil, fmt.Errorf("panic in recipe: %v", t)
		}
	}()

	return recipe.Resolve(ctx)
}

// releaseAll releases guards in reverse acquisition order.
func releaseAll(guards []Guard) {
	for i := len(guards) - 1; i >= 0; i-- {
		guards[i].Release()
	}
}
