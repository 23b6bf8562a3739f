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

import "reflect"

// A Key is the canonical identity of a lock. Keys are compared
// byte-wise; the resulting lexicographic order is the global
// acquisition order imposed on every compiled declaration.
//
// A Key must be derived only from the identity of the lock, never from
// a declaration site or a field name, so that independently authored
// declarations sharing locks agree on their relative order.
type Key string

// KeyOf derives the canonical key for the type G from its
// fully-qualified name. The same type always yields the same key, and
// distinct named types yield distinct keys.
//
// Unnamed types (pointers, slices, generic instantiations of unnamed
// forms) fall back to their reflected string form, which is stable
// within a build but may collide across packages with equal short
// names; prefer named guard types.
func KeyOf[G any]() Key {
	typ := reflect.TypeOf((*G)(nil)).Elem()
	if typ.Name() != "" && typ.PkgPath() != "" {
		return Key(typ.PkgPath() + "." + typ.Name())
	}
	return Key(typ.String())
}
