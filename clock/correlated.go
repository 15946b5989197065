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
	"math"

	log "github.com/sirupsen/logrus"
)

// CorrelatedClockConfig configures a CorrelatedClock. Unlike
// RootClockConfig's tickRate (where 0 is never a legal value and so
// safely means "unset"), Speed: 0 is a legitimate request (a paused
// clock) that must not be silently promoted to the default. Build a
// CorrelatedClockConfig starting from DefaultCorrelatedClockConfig and
// override only what differs.
type CorrelatedClockConfig struct {
	// TickRate is ticks per second. Must be > 0.
	TickRate float64
	// Speed is the rate multiplier versus the parent. May be 0 (paused)
	// or negative (reverse).
	Speed float64
	// Correlation anchors the mapping to the parent.
	Correlation Correlation
}

// DefaultCorrelatedClockConfig returns the documented defaults: tickRate
// 1000, speed 1, the all-zero correlation.
func DefaultCorrelatedClockConfig() CorrelatedClockConfig {
	return CorrelatedClockConfig{
		TickRate:    1000,
		Speed:       1,
		Correlation: ZeroCorrelation,
	}
}

// CorrelatedClock is a non-root node related to its parent by a mutable
// linear map: (parentTime, childTime, speed, tickRate) derived from a
// Correlation.
type CorrelatedClock struct {
	base

	tickRate    float64
	speed       float64
	correlation Correlation
}

// NewCorrelatedClock constructs a CorrelatedClock with parent as its
// parent. parent must not be nil. Returns ErrInvalidArgument if
// cfg.TickRate <= 0.
func NewCorrelatedClock(parent Clock, cfg CorrelatedClockConfig) (*CorrelatedClock, error) {
	if parent == nil {
		return nil, wrapf(ErrInvalidArgument, "correlated clock requires a non-nil parent")
	}
	if cfg.TickRate <= 0 {
		return nil, wrapf(ErrInvalidArgument, "correlated clock tickRate must be > 0, got %g", cfg.TickRate)
	}
	c := &CorrelatedClock{
		base:        newBase(),
		tickRate:    cfg.TickRate,
		speed:       cfg.Speed,
		correlation: cfg.Correlation,
	}
	c.base.attachToParent(c, parent)
	return c, nil
}

var _ Clock = (*CorrelatedClock)(nil)

// Now implements Clock: c.childTime + (parent.now() - c.parentTime) *
// tickRate * speed / parent.tickRate.
func (c *CorrelatedClock) Now() float64 {
	corr := c.correlation
	parentNow := c.parent.Now()
	return corr.ChildTime + (parentNow-corr.ParentTime)*c.tickRate*c.speed/c.parent.TickRate()
}

// TickRate implements Clock.
func (c *CorrelatedClock) TickRate() float64 { return c.tickRate }

// SetTickRate implements Clock.
func (c *CorrelatedClock) SetTickRate(rate float64) error {
	if rate <= 0 {
		return wrapf(ErrInvalidArgument, "correlated clock %s tickRate must be > 0, got %g", c.id, rate)
	}
	c.tickRate = rate
	c.notifyChange(c)
	return nil
}

// Speed implements Clock.
func (c *CorrelatedClock) Speed() float64 { return c.speed }

// SetSpeed implements Clock.
func (c *CorrelatedClock) SetSpeed(speed float64) error {
	c.speed = speed
	c.notifyChange(c)
	return nil
}

// EffectiveSpeed implements Clock.
func (c *CorrelatedClock) EffectiveSpeed() float64 { return effectiveSpeedOf(c) }

// Correlation returns the clock's current correlation.
func (c *CorrelatedClock) Correlation() Correlation { return c.correlation }

// SetCorrelation replaces the clock's correlation and emits change.
func (c *CorrelatedClock) SetCorrelation(corr Correlation) {
	c.correlation = corr
	c.notifyChange(c)
}

// SetCorrelationAndSpeed replaces both correlation and speed, emitting
// exactly one change event rather than two.
func (c *CorrelatedClock) SetCorrelationAndSpeed(corr Correlation, speed float64) {
	c.correlation = corr
	c.speed = speed
	c.notifyChange(c)
}

// Parent implements Clock (promoted from base; documented here because
// SetParent below needs the override pairing explained).
func (c *CorrelatedClock) Parent() Clock { return c.base.Parent() }

// SetParent implements Clock: detaches from the old parent's bus and
// attaches to the new one, then emits change.
func (c *CorrelatedClock) SetParent(p Clock) error {
	if p == nil {
		return wrapf(ErrInvalidArgument, "correlated clock %s requires a non-nil parent", c.id)
	}
	c.base.reparent(c, p)
	c.notifyChange(c)
	return nil
}

// Root implements Clock.
func (c *CorrelatedClock) Root() Clock { return rootOf(c) }

// Ancestry implements Clock.
func (c *CorrelatedClock) Ancestry() []Clock { return ancestryOf(c) }

// ToParentTime implements Clock's forward map inverse. When speed is 0
// the mapping is not invertible except at the pivot itself: every
// parent time maps to c.correlation.ChildTime, so no single parent time
// corresponds to any other child time. Returns the NaN sentinel rather
// than an error in that case.
func (c *CorrelatedClock) ToParentTime(t float64) (float64, error) {
	corr := c.correlation
	if c.speed == 0 {
		if t == corr.ChildTime {
			return corr.ParentTime, nil
		}
		return math.NaN(), nil
	}
	return corr.ParentTime + (t-corr.ChildTime)*c.parent.TickRate()/(c.tickRate*c.speed), nil
}

// FromParentTime implements Clock's forward map.
func (c *CorrelatedClock) FromParentTime(pt float64) (float64, error) {
	corr := c.correlation
	return corr.ChildTime + (pt-corr.ParentTime)*c.tickRate*c.speed/c.parent.TickRate(), nil
}

// ToRootTime implements Clock.
func (c *CorrelatedClock) ToRootTime(t float64) (float64, error) { return toRootTimeOf(c, t) }

// FromRootTime implements Clock.
func (c *CorrelatedClock) FromRootTime(t float64) (float64, error) { return fromRootTimeOf(c, t) }

// ToOtherClockTime implements Clock.
func (c *CorrelatedClock) ToOtherClockTime(other Clock, t float64) (float64, error) {
	return toOtherClockTimeOf(c, other, t)
}

// CalcWhen implements Clock.
func (c *CorrelatedClock) CalcWhen(t float64) (float64, error) {
	pt, err := c.ToParentTime(t)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(pt) {
		return math.NaN(), nil
	}
	return c.parent.CalcWhen(pt)
}

// SetAvailabilityFlag implements Clock.
func (c *CorrelatedClock) SetAvailabilityFlag(available bool) error {
	return c.base.setAvailabilityFlag(c, available)
}

// IsAvailable implements Clock.
func (c *CorrelatedClock) IsAvailable() bool { return isAvailableOf(c) }

// errorAtTime accumulates initialError plus the elapsed parent time
// since the pivot, scaled by errorGrowthRate.
func (c *CorrelatedClock) errorAtTime(t float64) float64 {
	corr := c.correlation
	pt, err := c.ToParentTime(t)
	if err != nil || math.IsNaN(pt) {
		return corr.InitialError
	}
	elapsed := math.Abs(pt-corr.ParentTime) / c.parent.TickRate()
	return corr.InitialError + elapsed*corr.ErrorGrowthRate
}

// DispersionAtTime implements Clock.
func (c *CorrelatedClock) DispersionAtTime(t float64) float64 {
	return composeDispersion(c, c.errorAtTime(t), t)
}

// RootMaxFreqErrorPpm implements Clock.
func (c *CorrelatedClock) RootMaxFreqErrorPpm() float64 { return c.parent.RootMaxFreqErrorPpm() }

// ClockDiff implements Clock.
func (c *CorrelatedClock) ClockDiff(other Clock) float64 { return clockDiffOf(c, other) }

// RebaseCorrelationAt replaces the correlation with one pivoting at
// child time t, carrying the currently-estimated error forward as the
// new initial error, without changing what Now() reads before or after
// the call.
func (c *CorrelatedClock) RebaseCorrelationAt(t float64) error {
	pt, err := c.ToParentTime(t)
	if err != nil {
		return err
	}
	if math.IsNaN(pt) {
		return wrapf(ErrInvalidArgument, "correlated clock %s cannot rebase at %g: speed is 0 and t is not the current pivot", c.id, t)
	}
	newErr := c.errorAtTime(t)
	c.correlation = Correlation{
		ParentTime:      pt,
		ChildTime:       t,
		InitialError:    newErr,
		ErrorGrowthRate: c.correlation.ErrorGrowthRate,
	}
	c.notifyChange(c)
	return nil
}

// quantifySignedChange returns the signed seconds difference the given
// correlation/speed change would introduce if applied now.
//
// When speed doesn't change, the two mappings are compared at the pivot
// of the proposed correlation: for a running (speed != 0) clock that
// pivot is newCorr.ChildTime, so we compare the parent-time the *new*
// mapping assigns it (trivially newCorr.ParentTime) against the
// parent-time the *current* mapping assigns it. For a paused (speed ==
// 0) clock every parent time maps to a single child-time, so we compare
// that fixed child-time between the two mappings instead.
func (c *CorrelatedClock) quantifySignedChange(newCorr Correlation, newSpeed float64) float64 {
	if newSpeed != c.speed {
		if newSpeed > c.speed {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}
	if newSpeed != 0 {
		currentParentTimeOfNewPivot, _ := c.ToParentTime(newCorr.ChildTime)
		return (newCorr.ParentTime - currentParentTimeOfNewPivot) / c.parent.TickRate()
	}
	return (newCorr.ChildTime - c.correlation.ChildTime) / c.tickRate
}

// QuantifyChange is the absolute value of quantifySignedChange.
func (c *CorrelatedClock) QuantifyChange(newCorr Correlation, newSpeed float64) float64 {
	v := c.quantifySignedChange(newCorr, newSpeed)
	return math.Abs(v)
}

// IsChangeSignificant reports whether QuantifyChange exceeds threshold.
func (c *CorrelatedClock) IsChangeSignificant(newCorr Correlation, newSpeed float64, threshold float64) bool {
	q := c.QuantifyChange(newCorr, newSpeed)
	if math.IsInf(q, 1) {
		log.WithField("clock", c.id).Debug("clock: pending change has unbounded significance (speed changing)")
	}
	return q > threshold
}

// SetTimeout implements Clock.
func (c *CorrelatedClock) SetTimeout(fn TimerFunc, deltaTicks float64, args ...any) TimerID {
	return c.base.setTimeout(c, fn, deltaTicks, args...)
}

// SetAtTime implements Clock.
func (c *CorrelatedClock) SetAtTime(fn TimerFunc, when float64, args ...any) TimerID {
	return c.base.setAtTime(c, fn, when, args...)
}

// ClearTimeout implements Clock.
func (c *CorrelatedClock) ClearTimeout(id TimerID) { c.base.clearTimeout(c, id) }
