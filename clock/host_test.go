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
	"time"

	"github.com/stretchr/testify/require"
)

func TestSystemHostNowMillisIsMonotonicallyNonDecreasing(t *testing.T) {
	h := NewSystemHost()
	a := h.NowMillis()
	time.Sleep(time.Millisecond)
	b := h.NowMillis()
	require.GreaterOrEqual(t, b, a)
}

func TestSystemHostScheduleAfterFires(t *testing.T) {
	h := NewSystemHost()
	done := make(chan struct{})
	h.ScheduleAfter(1, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestSystemHostCancelPreventsFiring(t *testing.T) {
	h := NewSystemHost()
	fired := false
	handle := h.ScheduleAfter(50, func() { fired = true })
	h.Cancel(handle)
	time.Sleep(75 * time.Millisecond)
	require.False(t, fired)
}

func TestFakeHostAdvanceFiresDueTimers(t *testing.T) {
	h := newFakeHost(0)
	var fired []string
	h.ScheduleAfter(100, func() { fired = append(fired, "a") })
	h.ScheduleAfter(200, func() { fired = append(fired, "b") })
	h.Advance(150)
	require.Equal(t, []string{"a"}, fired)
	h.Advance(100)
	require.Equal(t, []string{"a", "b"}, fired)
}

func TestFakeHostCancel(t *testing.T) {
	h := newFakeHost(0)
	var fired bool
	handle := h.ScheduleAfter(100, func() { fired = true })
	h.Cancel(handle)
	h.Advance(200)
	require.False(t, fired)
}
