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

package lockplan_test

import (
	"context"
	"fmt"

	"github.com/engtools/lockplan/lockplan"
	"github.com/engtools/lockplan/rwlock"
)

// A process-wide lock guarding account balances, and a recipe granting
// read access to it. The recipe also attaches an "as-ref" capability so
// that bundles containing the accounts lock can be read without naming
// the field.
func Example() {
	ctx := context.Background()
	accounts := rwlock.New(10)

	reg := lockplan.NewRegistry()
	if err := reg.Register("accounts", lockplan.Recipe{
		Resolve: func(ctx context.Context) (lockplan.Guard, error) {
			return accounts.Read(ctx)
		},
		Traits: []lockplan.Trait{{
			Capability: "as-ref",
			Bind: func(b *lockplan.Bundle, field string) any {
				return func() int {
					g, _ := lockplan.GuardAs[*rwlock.ReadGuard[int]](b, field)
					return g.Value()
				}
			},
		}},
	}); err != nil {
		panic(err)
	}

	resolver, err := lockplan.NewDeclaration("report").
		Field("accounts", "accounts").
		Compile(reg)
	if err != nil {
		panic(err)
	}

	bundle, err := resolver.Resolve(ctx)
	if err != nil {
		panic(err)
	}
	defer bundle.Release()

	guard, _ := lockplan.GuardAs[*rwlock.ReadGuard[int]](bundle, "accounts")
	fmt.Println(guard.Value())

	asRef, _ := lockplan.CapabilityAs[func() int](bundle, "as-ref")
	fmt.Println(asRef())

	// Output:
	// 10
	// 10
}
