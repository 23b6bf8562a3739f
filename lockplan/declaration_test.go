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
	"testing"

	"github.com/stretchr/testify/require"
)

// noopGuard is a Guard whose release does nothing.
type noopGuard struct{}

func (noopGuard) Release() {}

func noopRecipe() Recipe {
	return Recipe{
		Resolve: func(context.Context) (Guard, error) { return noopGuard{}, nil },
	}
}

func TestCompileDuplicateLockType(t *testing.T) {
	r := require.New(t)

	reg := NewRegistry()
	r.NoError(reg.Register("accounts", noopRecipe()))

	_, err := NewDeclaration("dup").
		Field("first", "accounts").
		Field("second", "accounts").
		Compile(reg)
	r.ErrorIs(err, ErrDuplicateLockType)
}

// Read and write access to one lock are distinct recipes sharing a lock
// identity; requesting both in one declaration is a duplicate.
func TestCompileReadWriteAliasing(t *testing.T) {
	r := require.New(t)

	reg := NewRegistry()
	read := noopRecipe()
	read.Lock = "accounts"
	write := noopRecipe()
	write.Lock = "accounts"
	r.NoError(reg.Register("accounts.read", read))
	r.NoError(reg.Register("accounts.write", write))

	_, err := NewDeclaration("upgrade").
		Field("view", "accounts.read").
		Field("edit", "accounts.write").
		Compile(reg)
	r.ErrorIs(err, ErrDuplicateLockType)

	// Either mode alone is fine.
	_, err = NewDeclaration("view").Field("view", "accounts.read").Compile(reg)
	r.NoError(err)
}

func TestCompileUnresolvedLockType(t *testing.T) {
	r := require.New(t)

	_, err := NewDeclaration("missing").
		Field("ghost", "no-such-lock").
		Compile(NewRegistry())
	r.ErrorIs(err, ErrUnresolvedLockType)
	r.ErrorContains(err, "no-such-lock")
}

func TestCompileConflictingCapability(t *testing.T) {
	r := require.New(t)

	reg := NewRegistry()
	mk := func() Recipe {
		recipe := noopRecipe()
		recipe.Traits = []Trait{{
			Capability: "as-ref",
			Bind:       func(*Bundle, string) any { return nil },
		}}
		return recipe
	}
	r.NoError(reg.Register("a", mk()))
	r.NoError(reg.Register("b", mk()))

	_, err := NewDeclaration("conflict").
		Field("a", "a").
		Field("b", "b").
		Compile(reg)
	r.ErrorIs(err, ErrConflictingCapability)
	r.ErrorContains(err, "as-ref")
}

func TestCompileDuplicateFieldName(t *testing.T) {
	r := require.New(t)

	reg := NewRegistry()
	r.NoError(reg.Register("a", noopRecipe()))
	r.NoError(reg.Register("b", noopRecipe()))

	_, err := NewDeclaration("dup").
		Field("same", "a").
		Field("same", "b").
		Compile(reg)
	r.ErrorContains(err, `duplicate field name "same"`)
}

func TestRegisterValidation(t *testing.T) {
	r := require.New(t)

	reg := NewRegistry()
	r.ErrorContains(reg.Register("empty", Recipe{}), "no Resolve callback")
	r.NoError(reg.Register("a", noopRecipe()))
	r.ErrorContains(reg.Register("a", noopRecipe()), "already registered")
}

func TestRegisterFor(t *testing.T) {
	r := require.New(t)

	reg := NewRegistry()
	key, err := RegisterFor[noopGuard](reg, noopRecipe())
	r.NoError(err)
	r.Equal(KeyOf[noopGuard](), key)

	resolver, err := FieldOf[noopGuard](NewDeclaration("typed"), "g").Compile(reg)
	r.NoError(err)
	r.Equal([]Field{{Name: "g", Key: key}}, resolver.Fields())
}
