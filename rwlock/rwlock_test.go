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

package rwlock

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestConcurrentReaders(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	l := New(42)

	g1, err := l.Read(ctx)
	r.NoError(err)
	g2, err := l.Read(ctx)
	r.NoError(err)

	r.Equal(42, g1.Value())
	r.Equal(42, g2.Value())

	g1.Release()
	g2.Release()

	// All readers gone, a writer may proceed.
	w, err := l.Write(ctx)
	r.NoError(err)
	w.Release()
}

func TestWriterExcludes(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	l := New(0)

	w, err := l.Write(ctx)
	r.NoError(err)
	w.Set(7)

	var sawValue atomic.Int32
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		g, err := l.Read(egCtx)
		if err != nil {
			return err
		}
		defer g.Release()
		sawValue.Store(int32(g.Value()))
		return nil
	})

	// The reader must not be admitted while the writer holds the lock.
	time.Sleep(10 * time.Millisecond)
	r.Zero(sawValue.Load())

	w.Release()
	r.NoError(eg.Wait())
	r.Equal(int32(7), sawValue.Load())
}

func TestReadersExcludeWriter(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	l := New("x")

	g, err := l.Read(ctx)
	r.NoError(err)

	writeCtx, writeCancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer writeCancel()
	_, err = l.Write(writeCtx)
	r.ErrorIs(err, context.DeadlineExceeded)

	g.Release()
	w, err := l.Write(ctx)
	r.NoError(err)
	w.Release()
}

func TestCancelWhileWaiting(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	l := New(0)
	w, err := l.Write(ctx)
	r.NoError(err)

	readCtx, readCancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		_, err := l.Read(readCtx)
		done <- err
	}()
	readCancel()
	r.ErrorIs(<-done, context.Canceled)

	// The abandoned acquisition must not have corrupted the lock.
	w.Release()
	g, err := l.Read(ctx)
	r.NoError(err)
	g.Release()
}

func TestClose(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	l := New(1)
	g, err := l.Read(ctx)
	r.NoError(err)

	l.Close()
	l.Close() // Idempotent.

	_, err = l.Read(ctx)
	r.ErrorIs(err, ErrClosed)
	_, err = l.Write(ctx)
	r.ErrorIs(err, ErrClosed)

	// An existing guard remains valid and releasable.
	r.Equal(1, g.Value())
	g.Release()
}

func TestCloseWakesWaiters(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	l := New(0)
	w, err := l.Write(ctx)
	r.NoError(err)

	done := make(chan error, 1)
	go func() {
		_, err := l.Write(ctx)
		done <- err
	}()

	l.Close()
	r.ErrorIs(<-done, ErrClosed)
	w.Release()
}

// Waiters whose slot becomes available only after Close must still be
// rejected, even though the slot and the closed channel are then both
// ready in their select.
func TestCloseBeatsFreedSlot(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	l := New(0)
	w, err := l.Write(ctx)
	r.NoError(err)

	const waiters = 8
	results := make(chan error, waiters)
	for i := 0; i < waiters; i++ {
		read := i%2 == 0
		go func() {
			var err error
			if read {
				_, err = l.Read(ctx)
			} else {
				_, err = l.Write(ctx)
			}
			results <- err
		}()
	}

	l.Close()
	w.Release()
	for i := 0; i < waiters; i++ {
		r.ErrorIs(<-results, ErrClosed)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	l := New(0)
	g, err := l.Read(ctx)
	r.NoError(err)
	g.Release()
	g.Release()

	w, err := l.Write(ctx)
	r.NoError(err)
	w.Release()
	w.Release()

	// Double release must not have freed a slot twice.
	w2, err := l.Write(ctx)
	r.NoError(err)
	w2.Release()
}
