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
	log "github.com/sirupsen/logrus"
)

// EventKind names one of the three events a Clock emits.
type EventKind string

const (
	// EventChange fires on self or on any ancestor's timing-altering
	// mutation.
	EventChange EventKind = "change"
	// EventAvailable fires when this clock's effective availability
	// flips from false to true.
	EventAvailable EventKind = "available"
	// EventUnavailable fires when this clock's effective availability
	// flips from true to false.
	EventUnavailable EventKind = "unavailable"
)

// Listener receives the clock that raised the event.
type Listener func(c Clock)

type subscription struct {
	id int
	fn Listener
}

// Bus is a minimal synchronous publish/subscribe mechanism supporting
// the three event kinds a Clock emits. It is owned by a single clock;
// nothing is shared between clocks except the parent->child forwarding
// wired up in base.attachToParent.
type Bus struct {
	nextID    int
	listeners map[EventKind][]subscription
}

func newBus() *Bus {
	return &Bus{listeners: make(map[EventKind][]subscription)}
}

// on registers fn for kind and returns an id usable with off.
func (b *Bus) on(kind EventKind, fn Listener) int {
	b.nextID++
	id := b.nextID
	b.listeners[kind] = append(b.listeners[kind], subscription{id: id, fn: fn})
	return id
}

// off removes a single subscription previously returned by on. Removing
// an unknown id is a no-op.
func (b *Bus) off(kind EventKind, id int) {
	subs := b.listeners[kind]
	for i, s := range subs {
		if s.id == id {
			b.listeners[kind] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// emit synchronously invokes every listener registered for kind, passing
// origin. A panicking listener is isolated: it is logged and does not
// prevent the remaining listeners from running.
func (b *Bus) emit(kind EventKind, origin Clock) {
	for _, s := range b.listeners[kind] {
		invokeListener(s.fn, kind, origin)
	}
}

func invokeListener(fn Listener, kind EventKind, origin Clock) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"event": string(kind),
				"panic": r,
			}).Error("clock: listener panicked, isolating and continuing")
		}
	}()
	fn(origin)
}
