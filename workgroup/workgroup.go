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

// Package workgroup contains a bounded pool for executing callbacks.
package workgroup

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// A Group executes callbacks with a bounded amount of concurrency and a
// bounded overflow queue. It satisfies the Runner contract expected by
// the lockplan package.
type Group struct {
	ctx     context.Context
	depth   int64
	queued  atomic.Int64
	workers *semaphore.Weighted
}

// WithSize returns a [Group] that executes up to the given number of
// callbacks concurrently, admitting at most depth additional callbacks
// beyond those currently executing. Queued callbacks are abandoned if
// the context is canceled before a worker slot frees up.
func WithSize(ctx context.Context, workers, depth int) *Group {
	if workers < 1 {
		workers = 1
	}
	if depth < 0 {
		depth = 0
	}
	return &Group{
		ctx:     ctx,
		depth:   int64(depth),
		workers: semaphore.NewWeighted(int64(workers)),
	}
}

// Go submits a callback for execution. It returns an error without
// blocking if all workers are busy and the overflow queue is full.
func (g *Group) Go(fn func(context.Context)) error {
	if g.workers.TryAcquire(1) {
		go func() {
			defer g.workers.Release(1)
			fn(g.ctx)
		}()
		return nil
	}

	// All workers are busy; admit to the overflow queue if it has room.
	for {
		n := g.queued.Load()
		if n >= g.depth {
			return fmt.Errorf("queue depth %d exceeded", g.depth)
		}
		if g.queued.CompareAndSwap(n, n+1) {
			break
		}
	}

	go func() {
		if err := g.workers.Acquire(g.ctx, 1); err != nil {
			g.queued.Add(-1)
			return
		}
		g.queued.Add(-1)
		defer g.workers.Release(1)
		fn(g.ctx)
	}()
	return nil
}

// Len returns the number of callbacks waiting for a worker slot.
func (g *Group) Len() int {
	return int(g.queued.Load())
}
