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
)

// Compilation errors. These surface from [Declaration.Compile] and are
// never returned by [Resolver.Resolve].
var (
	// ErrDuplicateLockType indicates that two fields of a declaration
	// resolve to the same lock, including one field for read and one
	// for write access against a single lock.
	ErrDuplicateLockType = errors.New("duplicate lock type")

	// ErrUnresolvedLockType indicates that a declaration references a
	// key with no registered recipe.
	ErrUnresolvedLockType = errors.New("unresolved lock type")

	// ErrConflictingCapability indicates that two fields of a
	// declaration offer a capability under the same name.
	ErrConflictingCapability = errors.New("conflicting capability")
)

// ErrScheduleCancel will be returned from [context.Cause] if an
// acquisition's context was canceled via the function returned from
// [Resolver.Schedule].
var ErrScheduleCancel = fmt.Errorf("%w: Resolver.Schedule cancel()", context.Canceled)

// An AcquisitionError reports the failure to acquire the lock at one
// position of a resolver's canonical plan. Guards acquired at earlier
// positions have already been released by the time the error is
// returned.
type AcquisitionError struct {
	Position int    // Zero-based position in canonical order.
	Field    string // Declared field name.
	Key      Key    // Identity of the lock that failed.
	cause    error
}

// Error implements error.
func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquiring lock %d (field %q, %s): %v",
		e.Position, e.Field, e.Key, e.cause)
}

// Unwrap returns the underlying lock primitive's error.
func (e *AcquisitionError) Unwrap() error { return e.cause }
