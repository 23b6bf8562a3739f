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

import "sync"

// A Bundle is the aggregate result of a successful acquisition: one
// guard per declared field, addressable by the declared field name
// regardless of the order in which the locks were acquired, plus any
// capabilities the fields' recipes attached.
//
// The bundle owns its guards exclusively. Releasing the bundle releases
// every guard in reverse canonical order; Release is idempotent.
type Bundle struct {
	name    string
	events  *Events
	fields  []Field // Canonical order.
	ordered []Guard // Canonical order, parallel to fields.
	byName  map[string]Guard
	caps    map[string]any
	release sync.Once
}

// Declaration returns the name of the declaration that produced the
// bundle.
func (b *Bundle) Declaration() string { return b.name }

// Fields returns the bundle's fields in canonical acquisition order.
func (b *Bundle) Fields() []Field {
	return append([]Field(nil), b.fields...)
}

// Guard returns the guard held for the declared field name.
func (b *Bundle) Guard(field string) (Guard, bool) {
	g, ok := b.byName[field]
	return g, ok
}

// GuardAs returns the guard held for the declared field name, typed as
// G. It returns false if the field does not exist or holds a guard of a
// different type.
func GuardAs[G Guard](b *Bundle, field string) (G, bool) {
	g, ok := b.byName[field]
	if !ok {
		return *new(G), false
	}
	typed, ok := g.(G)
	return typed, ok
}

// Capability returns the implementation attached under the given
// capability name.
func (b *Bundle) Capability(name string) (any, bool) {
	impl, ok := b.caps[name]
	return impl, ok
}

// CapabilityAs returns the implementation attached under the given
// capability name, typed as T.
func CapabilityAs[T any](b *Bundle, name string) (T, bool) {
	impl, ok := b.caps[name]
	if !ok {
		return *new(T), false
	}
	typed, ok := impl.(T)
	return typed, ok
}

// Release releases every guard in reverse canonical order. Only the
// first call has any effect.
func (b *Bundle) Release() {
	b.release.Do(func() {
		releaseAll(b.ordered)
		b.events.doReleased(b.name)
	})
}
