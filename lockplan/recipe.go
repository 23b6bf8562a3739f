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
	"sync"
)

// A Guard is the ownership token produced by successfully acquiring a
// lock. Releasing the guard releases the lock. Guards handed to a
// [Bundle] are owned exclusively by the bundle until it is released.
type Guard interface {
	Release()
}

// A Trait is one capability implementation offered by a recipe. When a
// bundle contains a field whose recipe carries the trait, Bind is
// invoked with the bundle and the field's declared name, and the value
// it returns becomes retrievable through [Bundle.Capability] under the
// trait's capability name.
type Trait struct {
	// Capability names the trait. Two fields of one declaration may not
	// offer the same capability name.
	Capability string

	// Bind produces the capability implementation for a bundle.
	Bind func(b *Bundle, field string) any
}

// A Recipe tells [Declaration.Compile] how to acquire one kind of lock
// and which capabilities its presence contributes to a bundle. Recipes
// are authored by lock providers and treated as immutable once
// registered.
type Recipe struct {
	// Lock identifies the underlying lock this recipe acquires. If
	// empty, it defaults to the key the recipe is registered under.
	// Recipes granting different access modes to one lock (a read
	// recipe and a write recipe) must share a Lock identity so that a
	// declaration requesting both is rejected.
	Lock Key

	// Resolve begins acquisition. It blocks until the lock is acquired,
	// the context is canceled, or the lock primitive fails.
	Resolve func(ctx context.Context) (Guard, error)

	// Traits lists the capabilities attached to bundles containing this
	// lock.
	Traits []Trait
}

// A Registry maps lock keys to recipes. It is expected to be populated
// once, before declarations are compiled against it.
//
// A Registry is internally synchronized and safe for concurrent use.
type Registry struct {
	mu struct {
		sync.RWMutex
		recipes map[Key]Recipe
	}
}

// NewRegistry constructs an empty [Registry].
func NewRegistry() *Registry {
	r := &Registry{}
	r.mu.recipes = make(map[Key]Recipe)
	return r
}

// Register associates a recipe with a key. It is an error to register
// a key twice or to register a recipe with no Resolve callback.
func (r *Registry) Register(key Key, recipe Recipe) error {
	if recipe.Resolve == nil {
		return fmt.Errorf("recipe for %s has no Resolve callback", key)
	}
	if recipe.Lock == "" {
		recipe.Lock = key
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.mu.recipes[key]; dup {
		return fmt.Errorf("recipe already registered for %s", key)
	}
	r.mu.recipes[key] = recipe
	return nil
}

// RegisterFor registers a recipe under [KeyOf] of the guard type G,
// returning the key used.
func RegisterFor[G any](r *Registry, recipe Recipe) (Key, error) {
	key := KeyOf[G]()
	return key, r.Register(key, recipe)
}

func (r *Registry) lookup(key Key) (Recipe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	recipe, ok := r.mu.recipes[key]
	return recipe, ok
}
