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
	"fmt"
	"sort"
)

// A Field is one entry of a [Declaration]: a caller-chosen name bound
// to the canonical key of a lock.
type Field struct {
	Name string
	Key  Key
}

// A Declaration describes a set of locks that a piece of code needs to
// hold simultaneously. The order in which fields are added carries no
// meaning for acquisition. Declarations are write-once: populate the
// fields, compile, and keep the compiled [Resolver].
type Declaration struct {
	name   string
	fields []Field
}

// NewDeclaration constructs a named, empty [Declaration].
func NewDeclaration(name string) *Declaration {
	return &Declaration{name: name}
}

// Field appends a field to the declaration and returns the receiver for
// chaining.
func (d *Declaration) Field(name string, key Key) *Declaration {
	d.fields = append(d.fields, Field{Name: name, Key: key})
	return d
}

// FieldOf appends a field keyed by [KeyOf] of the guard type G and
// returns the declaration for chaining.
func FieldOf[G any](d *Declaration, name string) *Declaration {
	return d.Field(name, KeyOf[G]())
}

// Name returns the declaration's name.
func (d *Declaration) Name() string { return d.name }

// A step is one position of a compiled acquisition plan.
type step struct {
	field  Field
	lock   Key // Identity of the underlying lock, from the recipe.
	recipe Recipe
}

// Compile validates the declaration against the registry and returns a
// [Resolver] whose plan acquires the declared locks in canonical order.
//
// Compilation fails with [ErrUnresolvedLockType] if a field's key has
// no recipe, with [ErrDuplicateLockType] if two fields resolve to the
// same lock, and with [ErrConflictingCapability] if two fields offer a
// capability under one name. A failed compilation produces no resolver;
// none of these conditions can surface later from [Resolver.Resolve].
func (d *Declaration) Compile(reg *Registry) (*Resolver, error) {
	steps := make([]step, 0, len(d.fields))
	fieldNames := make(map[string]struct{}, len(d.fields))
	lockOwners := make(map[Key]string, len(d.fields))
	capOwners := make(map[string]string)

	for _, f := range d.fields {
		if _, dup := fieldNames[f.Name]; dup {
			return nil, fmt.Errorf(
				"declaration %q: duplicate field name %q", d.name, f.Name)
		}
		fieldNames[f.Name] = struct{}{}

		recipe, ok := reg.lookup(f.Key)
		if !ok {
			return nil, fmt.Errorf("%w: %s (field %q of declaration %q)",
				ErrUnresolvedLockType, f.Key, f.Name, d.name)
		}

		if owner, dup := lockOwners[recipe.Lock]; dup {
			return nil, fmt.Errorf("%w: %s requested by fields %q and %q of declaration %q",
				ErrDuplicateLockType, recipe.Lock, owner, f.Name, d.name)
		}
		lockOwners[recipe.Lock] = f.Name

		for _, trait := range recipe.Traits {
			if owner, dup := capOwners[trait.Capability]; dup {
				return nil, fmt.Errorf("%w: %q offered by fields %q and %q of declaration %q",
					ErrConflictingCapability, trait.Capability, owner, f.Name, d.name)
			}
			capOwners[trait.Capability] = f.Name
		}

		steps = append(steps, step{field: f, lock: recipe.Lock, recipe: recipe})
	}

	// The canonical order: byte-wise comparison of lock identities.
	// Lock identities are unique within the plan, so the order is
	// total with no ties.
	sort.Slice(steps, func(i, j int) bool {
		return steps[i].lock < steps[j].lock
	})

	return &Resolver{name: d.name, steps: steps}, nil
}
