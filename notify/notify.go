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

// Package notify contains a utility type to wake waiters when a
// variable is updated.
package notify

import (
	"context"
	"sync"
)

// A Var holds a variable and provides a way for callers to wait for
// changes to that variable. The zero value of a Var is ready to use,
// holding the zero value of T.
//
// A Var is internally synchronized and should not be copied after
// first use.
type Var[T any] struct {
	mu struct {
		sync.Mutex
		updated chan struct{} // Closed and replaced by Set.
		value   T
	}
}

// VarOf returns a [Var] that holds the given value.
func VarOf[T any](value T) *Var[T] {
	v := &Var[T]{}
	v.Set(value)
	return v
}

// Get returns the current value and a channel that will be closed the
// next time [Var.Set] is called.
func (v *Var[T]) Get() (value T, changed <-chan struct{}) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mu.updated == nil {
		v.mu.updated = make(chan struct{})
	}
	return v.mu.value, v.mu.updated
}

// Set the value and wake any waiters.
func (v *Var[T]) Set(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mu.value = value
	if v.mu.updated != nil {
		close(v.mu.updated)
		v.mu.updated = nil
	}
}

// Wait blocks until the condition returns true for the current value of
// the Var, or until the context is canceled.
func Wait[T any](ctx context.Context, v *Var[T], cond func(T) bool) (T, error) {
	for {
		value, changed := v.Get()
		if cond(value) {
			return value, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return *new(T), ctx.Err()
		}
	}
}
