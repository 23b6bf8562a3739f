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

/*
Package lockplan builds deadlock-safe acquisition routines for sets of
named locks.

A caller describes the locks it needs together as a declaration: a named
list of fields, each pairing a field name with the canonical key of a
lock. Recipes, registered once per lock key, tell the compiler how to
begin acquiring that lock and which capabilities its presence
contributes. Compiling a declaration yields a Resolver:

	reg := NewRegistry()
	reg.Register(accountsKey, Recipe{
		Resolve: func(ctx context.Context) (Guard, error) {
			return accounts.Read(ctx)
		},
	})

	decl := NewDeclaration("transfer").
		Field("accounts", accountsKey).
		Field("audit", auditKey)
	resolver, err := decl.Compile(reg)

	bundle, err := resolver.Resolve(ctx)
	defer bundle.Release()

The resolver acquires every lock strictly one at a time, in an order
determined only by the locks' canonical keys, never by the order fields
were declared. Any two resolvers whose lock sets overlap therefore
acquire the overlap in the same relative order, so no cycle of "holds A,
waits for B" / "holds B, waits for A" can form between them. Locks
acquired outside this mechanism are not covered by that guarantee.

Malformed declarations are rejected when compiled, not when resolved: a
declaration that requests the same lock twice (including read and write
access to one lock), references a key with no recipe, or attaches two
capabilities under one name never produces a Resolver.
*/
package lockplan
