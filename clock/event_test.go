/*
Copyright (c) csclocks authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package clock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBusEmitInvokesAllListeners(t *testing.T) {
	b := newBus()
	var calls []string
	b.on(EventChange, func(Clock) { calls = append(calls, "a") })
	b.on(EventChange, func(Clock) { calls = append(calls, "b") })
	b.emit(EventChange, nil)
	require.Equal(t, []string{"a", "b"}, calls)
}

func TestBusOffRemovesOnlyThatSubscription(t *testing.T) {
	b := newBus()
	var calls []string
	idA := b.on(EventChange, func(Clock) { calls = append(calls, "a") })
	b.on(EventChange, func(Clock) { calls = append(calls, "b") })
	b.off(EventChange, idA)
	b.emit(EventChange, nil)
	require.Equal(t, []string{"b"}, calls)
}

func TestBusOffUnknownIDIsNoop(t *testing.T) {
	b := newBus()
	b.on(EventChange, func(Clock) {})
	require.NotPanics(t, func() { b.off(EventChange, 99999) })
}

func TestBusEmitIsolatesPanickingListener(t *testing.T) {
	b := newBus()
	var secondCalled bool
	b.on(EventChange, func(Clock) { panic("boom") })
	b.on(EventChange, func(Clock) { secondCalled = true })
	require.NotPanics(t, func() { b.emit(EventChange, nil) })
	require.True(t, secondCalled)
}

func TestBusEmitDifferentKindsAreIndependent(t *testing.T) {
	b := newBus()
	var changeCalled, availableCalled bool
	b.on(EventChange, func(Clock) { changeCalled = true })
	b.on(EventAvailable, func(Clock) { availableCalled = true })
	b.emit(EventChange, nil)
	require.True(t, changeCalled)
	require.False(t, availableCalled)
}
