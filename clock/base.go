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

var clockIDSeq int

func nextClockID() string {
	clockIDSeq++
	return fmt.Sprintf("clock-%d", clockIDSeq)
}

type parentSub struct {
	kind EventKind
	id   int
}

// base holds the state and shared algorithms every concrete clock kind
// (RootClock, CorrelatedClock, OffsetClock) embeds, owning its state
// directly rather than through a side table. The shared tree-walking
// algorithms are free functions taking the owning Clock as an explicit
// "self" argument, since Go's embedding gives base no way to observe the
// concrete type's own overridden methods otherwise.
type base struct {
	id               string
	parent           Clock
	availabilityFlag bool
	bus              *Bus
	parentSubs       []parentSub
	children         []Clock

	timers   map[TimerID]*timerEntry
	timerSeq int
}

func newBase() base {
	return base{
		id:               nextClockID(),
		availabilityFlag: true,
		bus:              newBus(),
		timers:           make(map[TimerID]*timerEntry),
	}
}

// ID implements Clock.
func (b *base) ID() string { return b.id }

// Parent implements Clock.
func (b *base) Parent() Clock { return b.parent }

// AvailabilityFlag implements Clock.
func (b *base) AvailabilityFlag() bool { return b.availabilityFlag }

// On implements Clock.
func (b *base) On(kind EventKind, fn Listener) int { return b.bus.on(kind, fn) }

// Off implements Clock.
func (b *base) Off(kind EventKind, id int) { b.bus.off(kind, id) }

// isAvailableOf implements Clock.IsAvailable for any clock: own flag AND
// (no parent OR parent's effective availability).
func isAvailableOf(self Clock) bool {
	if !self.AvailabilityFlag() {
		return false
	}
	p := self.Parent()
	if p == nil {
		return true
	}
	return p.IsAvailable()
}

// setAvailabilityFlag implements the shared side of Clock.
// SetAvailabilityFlag: flip the own flag, and if that flips *effective*
// availability, emit available/unavailable (never a change companion).
// A no-op call (same value) emits nothing.
func (b *base) setAvailabilityFlag(self Clock, available bool) error {
	if b.availabilityFlag == available {
		return nil
	}
	was := isAvailableOf(self)
	b.availabilityFlag = available
	now := isAvailableOf(self)
	if was == now {
		return nil
	}
	if now {
		b.bus.emit(EventAvailable, self)
	} else {
		b.bus.emit(EventUnavailable, self)
	}
	return nil
}

// ancestryOf implements Clock.Ancestry: self first, root last.
func ancestryOf(self Clock) []Clock {
	chain := make([]Clock, 0, 4)
	var cur Clock = self
	for cur != nil {
		chain = append(chain, cur)
		cur = cur.Parent()
	}
	return chain
}

// rootOf implements Clock.Root.
func rootOf(self Clock) Clock {
	chain := ancestryOf(self)
	return chain[len(chain)-1]
}

// effectiveSpeedOf implements Clock.EffectiveSpeed: product of Speed()
// up the ancestry, inclusive of self.
func effectiveSpeedOf(self Clock) float64 {
	s := 1.0
	for _, c := range ancestryOf(self) {
		s *= c.Speed()
	}
	return s
}

// toRootTimeOf implements Clock.ToRootTime by left-folding ToParentTime
// up the ancestry chain.
func toRootTimeOf(self Clock, t float64) (float64, error) {
	val := t
	var cur Clock = self
	for {
		p := cur.Parent()
		if p == nil {
			return val, nil
		}
		var err error
		val, err = cur.ToParentTime(val)
		if err != nil {
			return 0, err
		}
		cur = p
	}
}

// fromRootTimeOf implements Clock.FromRootTime by applying
// FromParentTime down the ancestry chain, from the root's immediate
// child down to self.
func fromRootTimeOf(self Clock, t float64) (float64, error) {
	chain := ancestryOf(self)
	val := t
	for i := len(chain) - 2; i >= 0; i-- {
		var err error
		val, err = chain[i].FromParentTime(val)
		if err != nil {
			return 0, err
		}
	}
	return val, nil
}

// toOtherClockTimeOf implements Clock.ToOtherClockTime: strip the common
// ancestry tail (by identity), walk self's surviving chain up via
// ToParentTime, then other's surviving chain down via FromParentTime.
func toOtherClockTimeOf(self Clock, other Clock, t float64) (float64, error) {
	selfChain := self.Ancestry()
	otherChain := other.Ancestry()

	i, j := len(selfChain)-1, len(otherChain)-1
	k := 0
	for i >= 0 && j >= 0 && selfChain[i] == otherChain[j] {
		k++
		i--
		j--
	}
	if k == 0 {
		return 0, wrapf(ErrNoCommonAncestor, "converting time from %s to %s", self.ID(), other.ID())
	}

	val := t
	for idx := 0; idx < len(selfChain)-k; idx++ {
		var err error
		val, err = selfChain[idx].ToParentTime(val)
		if err != nil {
			return 0, err
		}
	}
	for idx := len(otherChain) - k - 1; idx >= 0; idx-- {
		var err error
		val, err = otherChain[idx].FromParentTime(val)
		if err != nil {
			return 0, err
		}
	}
	return val, nil
}

// composeDispersion implements the shared half of Clock.
// DispersionAtTime: own error at t, plus the parent's dispersion at
// toParentTime(t).
func composeDispersion(self Clock, own float64, t float64) float64 {
	p := self.Parent()
	if p == nil {
		return own
	}
	pt, err := self.ToParentTime(t)
	if err != nil {
		return own
	}
	if math.IsNaN(pt) {
		return own
	}
	return own + p.DispersionAtTime(pt)
}

// clockDiffOf implements Clock.ClockDiff.
func clockDiffOf(self Clock, other Clock) float64 {
	if self.EffectiveSpeed() != other.EffectiveSpeed() || self.TickRate() != other.TickRate() {
		return math.Inf(1)
	}
	selfRoot := self.Root()
	selfVal, err := self.FromRootTime(selfRoot.Now())
	if err != nil {
		return math.Inf(1)
	}
	otherRoot := other.Root()
	otherVal, err := other.FromRootTime(otherRoot.Now())
	if err != nil {
		return math.Inf(1)
	}
	return math.Abs(selfVal-otherVal) / self.TickRate()
}

// hoster is implemented only by RootClock: the one clock kind that
// actually talks to a Host.
type hoster interface {
	hostClock() Host
}

func findHost(self Clock) Host {
	if hp, ok := rootOf(self).(hoster); ok {
		return hp.hostClock()
	}
	return nil
}

// childRegistrar is implemented by base so a child can register itself
// with its parent's children list on attach and remove itself on
// detach, regardless of the parent's concrete type.
type childRegistrar interface {
	addChild(c Clock)
	removeChild(c Clock)
	childClocks() []Clock
}

func (b *base) addChild(c Clock) {
	b.children = append(b.children, c)
}

func (b *base) removeChild(c Clock) {
	for i, existing := range b.children {
		if existing == c {
			b.children = append(b.children[:i], b.children[i+1:]...)
			return
		}
	}
}

func (b *base) childClocks() []Clock { return b.children }

// childrenOf returns self's direct children, or nil if self isn't a
// childRegistrar (shouldn't happen for any concrete clock in this
// package, but callers outside it could implement Clock without one).
func childrenOf(self Clock) []Clock {
	if r, ok := self.(childRegistrar); ok {
		return r.childClocks()
	}
	return nil
}

// detachFromParent unsubscribes self's change/available/unavailable
// listeners from its current parent, if any, and removes self from the
// parent's child list.
func (b *base) detachFromParent(self Clock) {
	if b.parent == nil {
		return
	}
	for _, s := range b.parentSubs {
		b.parent.Off(s.kind, s.id)
	}
	b.parentSubs = nil
	if r, ok := b.parent.(childRegistrar); ok {
		r.removeChild(self)
	}
}

// attachToParent installs change/available/unavailable subscriptions on
// the new parent: parent change re-emits change(self); parent
// available/unavailable are re-emitted only if self's own flag is true.
// self is also registered in the parent's child list.
func (b *base) attachToParent(self Clock, p Clock) {
	b.parent = p
	if p == nil {
		return
	}
	if r, ok := p.(childRegistrar); ok {
		r.addChild(self)
	}
	changeID := p.On(EventChange, func(Clock) {
		b.notifyChange(self)
	})
	availID := p.On(EventAvailable, func(Clock) {
		if b.availabilityFlag {
			b.bus.emit(EventAvailable, self)
		}
	})
	unavailID := p.On(EventUnavailable, func(Clock) {
		if b.availabilityFlag {
			b.bus.emit(EventUnavailable, self)
		}
	})
	b.parentSubs = []parentSub{
		{kind: EventChange, id: changeID},
		{kind: EventAvailable, id: availID},
		{kind: EventUnavailable, id: unavailID},
	}
}

// reparent detaches from the old parent (if any) and attaches to p,
// which may be nil.
func (b *base) reparent(self Clock, p Clock) {
	b.detachFromParent(self)
	b.attachToParent(self, p)
}

// notifyChange emits change(self) and rearms every timer registered on
// self against the (possibly now different) mapping to root. Called both
// after a direct local mutation and whenever a change event arrives from
// a parent.
func (b *base) notifyChange(self Clock) {
	b.bus.emit(EventChange, self)
	b.rearmAllTimers(self)
}

func init() {
	// quiet down logrus's default stderr chatter in library use; callers
	// embedding this package configure their own logger the way the
	// teacher's daemons do (e.g. fbclock/daemon.go's log.SetLevel).
	log.SetLevel(log.WarnLevel)
}
