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

// OffsetClockConfig configures an OffsetClock.
type OffsetClockConfig struct {
	// OffsetMillis is how far ahead of the parent, in real-world
	// milliseconds, this clock's output runs. May be negative.
	OffsetMillis float64
}

// OffsetClock is a non-root node whose output is its parent's time
// shifted by a configurable offset measured in real-world milliseconds,
// rendered in parent ticks through the parent's current effective
// speed. Speed is fixed at 1 and tickRate always equals the parent's.
type OffsetClock struct {
	base

	offsetMillis float64
}

// NewOffsetClock constructs an OffsetClock with parent as its parent.
// parent must not be nil.
func NewOffsetClock(parent Clock, cfg OffsetClockConfig) (*OffsetClock, error) {
	if parent == nil {
		return nil, wrapf(ErrInvalidArgument, "offset clock requires a non-nil parent")
	}
	o := &OffsetClock{
		base:         newBase(),
		offsetMillis: cfg.OffsetMillis,
	}
	o.base.attachToParent(o, parent)
	return o, nil
}

var _ Clock = (*OffsetClock)(nil)

// shift returns the current offset, in parent ticks, scaled through
// this clock's effective speed: offset * effectiveSpeed * parentTickRate
// / 1000.
func (o *OffsetClock) shift() float64 {
	return o.offsetMillis * o.EffectiveSpeed() * o.parent.TickRate() / 1000.0
}

// Now implements Clock: parent.now() + shift.
func (o *OffsetClock) Now() float64 { return o.parent.Now() + o.shift() }

// TickRate implements Clock: always the parent's.
func (o *OffsetClock) TickRate() float64 { return o.parent.TickRate() }

// SetTickRate implements Clock: offset clocks are immutable here.
func (o *OffsetClock) SetTickRate(float64) error {
	return wrapf(ErrImmutable, "offset clock %s tickRate is tied to its parent", o.id)
}

// Speed implements Clock: always 1.
func (o *OffsetClock) Speed() float64 { return 1 }

// SetSpeed implements Clock: offset clocks are immutable here.
func (o *OffsetClock) SetSpeed(float64) error {
	return wrapf(ErrImmutable, "offset clock %s speed is fixed at 1", o.id)
}

// EffectiveSpeed implements Clock.
func (o *OffsetClock) EffectiveSpeed() float64 { return effectiveSpeedOf(o) }

// OffsetMillis returns the clock's current offset in real-world
// milliseconds.
func (o *OffsetClock) OffsetMillis() float64 { return o.offsetMillis }

// SetOffsetMillis changes the offset. Emits change only if the value
// actually changed.
func (o *OffsetClock) SetOffsetMillis(ms float64) {
	if ms == o.offsetMillis {
		return
	}
	o.offsetMillis = ms
	o.notifyChange(o)
}

// SetParent implements Clock.
func (o *OffsetClock) SetParent(p Clock) error {
	if p == nil {
		return wrapf(ErrInvalidArgument, "offset clock %s requires a non-nil parent", o.id)
	}
	o.base.reparent(o, p)
	o.notifyChange(o)
	return nil
}

// Root implements Clock.
func (o *OffsetClock) Root() Clock { return rootOf(o) }

// Ancestry implements Clock.
func (o *OffsetClock) Ancestry() []Clock { return ancestryOf(o) }

// ToParentTime implements Clock: t - shift.
func (o *OffsetClock) ToParentTime(t float64) (float64, error) { return t - o.shift(), nil }

// FromParentTime implements Clock: t + shift.
func (o *OffsetClock) FromParentTime(t float64) (float64, error) { return t + o.shift(), nil }

// ToRootTime implements Clock.
func (o *OffsetClock) ToRootTime(t float64) (float64, error) { return toRootTimeOf(o, t) }

// FromRootTime implements Clock.
func (o *OffsetClock) FromRootTime(t float64) (float64, error) { return fromRootTimeOf(o, t) }

// ToOtherClockTime implements Clock.
func (o *OffsetClock) ToOtherClockTime(other Clock, t float64) (float64, error) {
	return toOtherClockTimeOf(o, other, t)
}

// CalcWhen implements Clock: the host instant at which the parent reads
// toParentTime(t), i.e. map through the inverse of the parent's own
// mapping.
func (o *OffsetClock) CalcWhen(t float64) (float64, error) {
	pt, err := o.ToParentTime(t)
	if err != nil {
		return 0, err
	}
	return o.parent.CalcWhen(pt)
}

// SetAvailabilityFlag implements Clock.
func (o *OffsetClock) SetAvailabilityFlag(available bool) error {
	return o.base.setAvailabilityFlag(o, available)
}

// IsAvailable implements Clock.
func (o *OffsetClock) IsAvailable() bool { return isAvailableOf(o) }

// DispersionAtTime implements Clock: an offset clock introduces no error
// of its own, only the parent's.
func (o *OffsetClock) DispersionAtTime(t float64) float64 { return composeDispersion(o, 0, t) }

// RootMaxFreqErrorPpm implements Clock.
func (o *OffsetClock) RootMaxFreqErrorPpm() float64 { return o.parent.RootMaxFreqErrorPpm() }

// ClockDiff implements Clock.
func (o *OffsetClock) ClockDiff(other Clock) float64 { return clockDiffOf(o, other) }

// SetTimeout implements Clock.
func (o *OffsetClock) SetTimeout(fn TimerFunc, deltaTicks float64, args ...any) TimerID {
	return o.base.setTimeout(o, fn, deltaTicks, args...)
}

// SetAtTime implements Clock.
func (o *OffsetClock) SetAtTime(fn TimerFunc, when float64, args ...any) TimerID {
	return o.base.setAtTime(o, fn, when, args...)
}

// ClearTimeout implements Clock.
func (o *OffsetClock) ClearTimeout(id TimerID) { o.base.clearTimeout(o, id) }
