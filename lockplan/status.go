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
	"fmt"

	"github.com/engtools/lockplan/notify"
)

// Outcome is a convenience type alias for the result of
// [Resolver.Schedule].
type Outcome = *notify.Var[*Status]

// Status describes the progress of a scheduled acquisition.
type Status struct {
	bundle *Bundle
	err    error
}

// Sentinel instances of Status.
var (
	executing = &Status{}
	queued    = &Status{}
)

// Bundle returns the acquired bundle, or nil if the acquisition has not
// succeeded.
func (s *Status) Bundle() *Bundle { return s.bundle }

// Completed returns true once the acquisition has succeeded or failed.
func (s *Status) Completed() bool { return s.bundle != nil || s.err != nil }

// Err returns the acquisition's error, if any.
func (s *Status) Err() error { return s.err }

// Executing returns true while the acquisition is in progress.
func (s *Status) Executing() bool { return s == executing }

// Queued returns true if the acquisition has not started yet.
func (s *Status) Queued() bool { return s == queued }

// Success returns true if the acquisition produced a bundle.
func (s *Status) Success() bool { return s.bundle != nil }

func (s *Status) String() string {
	switch {
	case s == executing:
		return "executing"
	case s == queued:
		return "queued"
	case s.bundle != nil:
		return "success"
	default:
		return fmt.Sprintf("error: %v", s.err)
	}
}

// Wait blocks until every outcome has completed, returning the first
// error encountered. Bundles remain retrievable from the individual
// outcomes.
func Wait(ctx context.Context, outcomes []Outcome) error {
outcome:
	for _, outcome := range outcomes {
		for {
			status, changed := outcome.Get()
			if status.Success() {
				continue outcome
			}
			if err := status.Err(); err != nil {
				return err
			}
			select {
			case <-changed:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}
