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

import "time"

// Events provides a [Resolver] with optional callbacks to monitor
// acquisitions. Any field may be nil.
//
// See [Resolver.SetEvents].
type Events struct {
	// OnAcquired is invoked after the lock at a canonical position has
	// been acquired; wait is the time spent blocked on that lock.
	OnAcquired func(declaration, field string, position int, wait time.Duration)
	// OnAcquireFailed is invoked when the lock at a canonical position
	// cannot be acquired, after earlier guards have been released.
	OnAcquireFailed func(declaration, field string, position int, err error)
	// OnResolved is invoked when a full bundle has been acquired; total
	// is the time spent across all positions.
	OnResolved func(declaration string, total time.Duration)
	// OnReleased is invoked when a bundle releases its guards.
	OnReleased func(declaration string)
}

func (e *Events) doAcquired(declaration, field string, position int, wait time.Duration) {
	if e != nil && e.OnAcquired != nil {
		e.OnAcquired(declaration, field, position, wait)
	}
}

func (e *Events) doAcquireFailed(declaration, field string, position int, err error) {
	if e != nil && e.OnAcquireFailed != nil {
		e.OnAcquireFailed(declaration, field, position, err)
	}
}

func (e *Events) doResolved(declaration string, total time.Duration) {
	if e != nil && e.OnResolved != nil {
		e.OnResolved(declaration, total)
	}
}

func (e *Events) doReleased(declaration string) {
	if e != nil && e.OnReleased != nil {
		e.OnReleased(declaration)
	}
}
