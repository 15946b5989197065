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
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

// timerEntry is one registration in a clock's timer table: a target
// tick on self's own timeline, the callback and its arguments, and the
// currently-armed host handle (if any).
type timerEntry struct {
	when       float64
	fn         TimerFunc
	args       []any
	hostHandle TimerHandle
	armed      bool
}

// setAtTime implements Clock.SetAtTime.
func (b *base) setAtTime(self Clock, fn TimerFunc, when float64, args ...any) TimerID {
	b.timerSeq++
	id := TimerID(fmt.Sprintf("%s/timer-%d", b.id, b.timerSeq))
	entry := &timerEntry{when: when, fn: fn, args: args}
	b.timers[id] = entry
	b.armTimer(self, id, entry)
	return id
}

// setTimeout implements Clock.SetTimeout as SetAtTime(fn, Now()+delta).
func (b *base) setTimeout(self Clock, fn TimerFunc, deltaTicks float64, args ...any) TimerID {
	return b.setAtTime(self, fn, self.Now()+deltaTicks, args...)
}

// clearTimeout implements Clock.ClearTimeout.
func (b *base) clearTimeout(self Clock, id TimerID) {
	entry, ok := b.timers[id]
	if !ok {
		return
	}
	if entry.armed {
		if host := findHost(self); host != nil {
			host.Cancel(entry.hostHandle)
		}
	}
	delete(b.timers, id)
}

// rearmAllTimers recomputes and re-arms every timer registered on self
// against the current mapping to root. Called on every change event
// reaching self, whether from a local mutation or forwarded from an
// ancestor.
func (b *base) rearmAllTimers(self Clock) {
	for id, entry := range b.timers {
		b.armTimer(self, id, entry)
	}
}

// armTimer translates entry's target tick to a real-millisecond delay
// via root time and (re)arms the underlying host timer. A target with
// no finite root-time equivalent right now (a paused clock on the path
// to the root) is left unarmed until the next change rearms it.
func (b *base) armTimer(self Clock, id TimerID, entry *timerEntry) {
	host := findHost(self)
	if host == nil {
		log.Warn("clock: no host reachable from root, timer left unarmed")
		entry.armed = false
		return
	}
	if entry.armed {
		host.Cancel(entry.hostHandle)
		entry.armed = false
		entry.hostHandle = nil
	}

	root := self.Root()
	targetRootTicks, err := self.ToRootTime(entry.when)
	if err != nil {
		log.WithError(err).Warn("clock: could not translate timer target to root time, leaving unarmed")
		return
	}
	if math.IsNaN(targetRootTicks) {
		log.Debug("clock: timer target has no root-time equivalent right now, leaving unarmed until next change")
		return
	}

	deltaRootTicks := targetRootTicks - root.Now()

	var ms float64
	switch {
	case deltaRootTicks == 0:
		ms = 0
	case root.Speed() != 0:
		ms = (deltaRootTicks / root.Speed()) * (1000.0 / root.TickRate())
	default:
		ms = math.NaN()
	}

	if math.IsNaN(ms) {
		log.Debug("clock: root speed is zero, timer has no finite deadline, leaving unarmed until next change")
		return
	}
	if ms < 0 {
		ms = 0
	}

	entry.hostHandle = host.ScheduleAfter(ms, func() {
		b.fireTimer(self, id)
	})
	entry.armed = true
}

// fireTimer removes entry from the registry, then invokes the callback
// with its preserved arguments, so a callback that reschedules itself
// sees a clean registry.
func (b *base) fireTimer(self Clock, id TimerID) {
	entry, ok := b.timers[id]
	if !ok {
		return
	}
	delete(b.timers, id)
	entry.fn(entry.args)
}
