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

package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVar(t *testing.T) {
	r := require.New(t)

	var v Var[int]
	value, changed := v.Get()
	r.Zero(value)

	v.Set(42)
	select {
	case <-changed:
	default:
		r.Fail("expected change notification")
	}

	value, _ = v.Get()
	r.Equal(42, value)
}

func TestVarOf(t *testing.T) {
	r := require.New(t)

	value, _ := VarOf("hello").Get()
	r.Equal("hello", value)
}

func TestWait(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	v := VarOf(0)
	go func() {
		for i := 1; i <= 5; i++ {
			v.Set(i)
		}
	}()

	found, err := Wait(ctx, v, func(value int) bool { return value == 5 })
	r.NoError(err)
	r.Equal(5, found)
}

func TestWaitCancel(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var v Var[int]
	_, err := Wait(ctx, &v, func(int) bool { return false })
	r.ErrorIs(err, context.Canceled)
}
