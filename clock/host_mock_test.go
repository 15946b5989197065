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

import "github.com/stretchr/testify/mock"

// mockHost is a testify/mock-based Host, used where a test only needs
// to stub a handful of calls and assert they happened.
type mockHost struct {
	mock.Mock
}

func (m *mockHost) NowMillis() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *mockHost) ScheduleAfter(delayMs float64, fn func()) TimerHandle {
	args := m.Called(delayMs, fn)
	return args.Get(0)
}

func (m *mockHost) Cancel(h TimerHandle) {
	m.Called(h)
}

// fakeHost is a deterministic, manually-advanced Host used to drive
// timer-rescheduling tests without real wall-clock sleeps. Armed timers
// are kept in a map and fired by Advance in deadline order.
type fakeHost struct {
	now    float64
	armed  map[int]*fakeTimer
	nextID int
}

type fakeTimer struct {
	deadline float64
	fn       func()
	fired    bool
}

func newFakeHost(start float64) *fakeHost {
	return &fakeHost{now: start, armed: make(map[int]*fakeTimer)}
}

func (h *fakeHost) NowMillis() float64 { return h.now }

func (h *fakeHost) ScheduleAfter(delayMs float64, fn func()) TimerHandle {
	h.nextID++
	id := h.nextID
	h.armed[id] = &fakeTimer{deadline: h.now + delayMs, fn: fn}
	return id
}

func (h *fakeHost) Cancel(handle TimerHandle) {
	id, ok := handle.(int)
	if !ok {
		return
	}
	delete(h.armed, id)
}

// Advance moves now forward by deltaMs and fires (in deadline order)
// every still-armed timer whose deadline has passed, removing it from
// the registry before calling it. A timer armed by a callback fires in
// the same Advance if its deadline has already passed, otherwise on a
// later Advance.
func (h *fakeHost) Advance(deltaMs float64) {
	h.now += deltaMs
	for {
		var fireID int
		found := false
		var earliest float64
		for id, t := range h.armed {
			if t.deadline <= h.now && (!found || t.deadline < earliest) {
				fireID, earliest, found = id, t.deadline, true
			}
		}
		if !found {
			return
		}
		t := h.armed[fireID]
		delete(h.armed, fireID)
		t.fn()
	}
}

// ArmedCount returns the number of currently armed timers, for
// assertions that a rearm actually happened.
func (h *fakeHost) ArmedCount() int { return len(h.armed) }
