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

// Package rwlock provides a context-aware reader/writer lock that
// guards a value and hands out ownership tokens.
//
// Unlike [sync.RWMutex], acquisition may be abandoned through context
// cancellation, and a successful acquisition returns a guard whose
// Release method returns the lock. The lock may be closed, after which
// all pending and future acquisitions fail with [ErrClosed].
package rwlock

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by acquisitions against a closed lock.
var ErrClosed = errors.New("lock closed")

// An RWLock guards a value of type T. It can be held by an arbitrary
// number of readers or by a single writer. Use [New] to construct one.
//
// Recursive read locking is not supported: a blocked writer excludes
// new readers that arrive while the reader count is zero, but does not
// preempt readers already admitted.
type RWLock[T any] struct {
	writer    chan struct{} // Held by the writer or by the first reader.
	readers   chan int      // Token carrying the current reader count.
	closed    chan struct{}
	closeOnce sync.Once
	value     T
}

// New constructs an unlocked RWLock guarding the given value.
func New[T any](value T) *RWLock[T] {
	l := &RWLock[T]{
		writer:  make(chan struct{}, 1),
		readers: make(chan int, 1),
		closed:  make(chan struct{}),
		value:   value,
	}
	l.writer <- struct{}{}
	l.readers <- 0
	return l
}

// Close poisons the lock. Pending and future acquisitions return
// [ErrClosed]. Guards already handed out remain valid and may still be
// released. Close is idempotent.
func (l *RWLock[T]) Close() {
	l.closeOnce.Do(func() { close(l.closed) })
}

// Read acquires the lock for reading, blocking until the lock is
// available, the context is canceled, or the lock is closed.
func (l *RWLock[T]) Read(ctx context.Context) (*ReadGuard[T], error) {
	select {
	case <-l.closed:
		return nil, ErrClosed
	default:
	}

	select {
	case count := <-l.readers:
		if count == 0 {
			// The first reader takes the writer slot to exclude
			// writers until the last reader releases.
			select {
			case <-l.writer:
			case <-ctx.Done():
				l.readers <- count
				return nil, ctx.Err()
			case <-l.closed:
				l.readers <- count
				return nil, ErrClosed
			}
		}
		// The slot select may win against a concurrent Close, so
		// re-check before committing.
		select {
		case <-l.closed:
			if count == 0 {
				l.writer <- struct{}{}
			}
			l.readers <- count
			return nil, ErrClosed
		default:
		}
		l.readers <- count + 1
		return &ReadGuard[T]{lock: l}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.closed:
		return nil, ErrClosed
	}
}

// Write acquires the lock for writing, blocking until all readers and
// any writer have released, the context is canceled, or the lock is
// closed.
func (l *RWLock[T]) Write(ctx context.Context) (*WriteGuard[T], error) {
	select {
	case <-l.closed:
		return nil, ErrClosed
	default:
	}

	select {
	case <-l.writer:
		// The slot select may win against a concurrent Close, so
		// re-check before committing.
		select {
		case <-l.closed:
			l.writer <- struct{}{}
			return nil, ErrClosed
		default:
		}
		return &WriteGuard[T]{lock: l}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.closed:
		return nil, ErrClosed
	}
}

// A ReadGuard is the ownership token for a read acquisition. It must be
// released exactly once; Release is idempotent.
type ReadGuard[T any] struct {
	lock *RWLock[T]
	once sync.Once
}

// Value returns the guarded value. It must not be called after Release.
func (g *ReadGuard[T]) Value() T {
	return g.lock.value
}

// Release returns the read lock.
func (g *ReadGuard[T]) Release() {
	g.once.Do(func() {
		count := <-g.lock.readers
		count--
		if count == 0 {
			g.lock.writer <- struct{}{}
		}
		g.lock.readers <- count
	})
}

// A WriteGuard is the ownership token for a write acquisition. It must
// be released exactly once; Release is idempotent.
type WriteGuard[T any] struct {
	lock *RWLock[T]
	once sync.Once
}

// Value returns the guarded value. It must not be called after Release.
func (g *WriteGuard[T]) Value() T {
	return g.lock.value
}

// Set replaces the guarded value. It must not be called after Release.
func (g *WriteGuard[T]) Set(value T) {
	g.lock.value = value
}

// Release returns the write lock.
func (g *WriteGuard[T]) Release() {
	g.once.Do(func() {
		g.lock.writer <- struct{}{}
	})
}
