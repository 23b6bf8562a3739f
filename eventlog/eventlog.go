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

// Package eventlog emits acquisition activity as structured log events.
package eventlog

import (
	"time"

	"github.com/engtools/lockplan/lockplan"
	"github.com/rs/zerolog"
)

// Events returns callbacks that log acquisition activity to the given
// logger. Individual acquisitions are logged at debug level; failures
// at warn level. Pass the result to [lockplan.Resolver.SetEvents].
func Events(log zerolog.Logger) *lockplan.Events {
	return &lockplan.Events{
		OnAcquired: func(declaration, field string, position int, wait time.Duration) {
			log.Debug().
				Str("declaration", declaration).
				Str("field", field).
				Int("position", position).
				Dur("wait", wait).
				Msg("lock acquired")
		},
		OnAcquireFailed: func(declaration, field string, position int, err error) {
			log.Warn().
				Str("declaration", declaration).
				Str("field", field).
				Int("position", position).
				Err(err).
				Msg("lock acquisition failed")
		},
		OnResolved: func(declaration string, total time.Duration) {
			log.Debug().
				Str("declaration", declaration).
				Dur("total", total).
				Msg("bundle resolved")
		},
		OnReleased: func(declaration string) {
			log.Debug().
				Str("declaration", declaration).
				Msg("bundle released")
		},
	}
}
