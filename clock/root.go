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

// DefaultMaxFreqErrorPpm is the default maximum frequency error, in
// parts per million, a RootClock reports when none is configured.
const DefaultMaxFreqErrorPpm = 50

// RootClockConfig configures a RootClock. Zero-value fields fall back
// to their documented defaults.
type RootClockConfig struct {
	// TickRate is ticks per second. Defaults to 1000.
	TickRate float64
	// MaxFreqErrorPpm is the configured maximum frequency error, in
	// ppm. Defaults to DefaultMaxFreqErrorPpm.
	MaxFreqErrorPpm float64
	// Precision is the fixed dispersion, in seconds, this root clock
	// reports at any tick. Defaults to DefaultPrecision only when Host is
	// also unset; with a caller-supplied Host, a zero Precision stays 0.
	Precision float64
	// Host is the real-time collaborator backing Now/timers. Defaults
	// to DefaultHost.
	Host Host
}

// RootClock is the terminal node of a clock tree: it has no parent and
// reads the host's monotonic wall time, scaled to a configured tick
// rate.
type RootClock struct {
	base

	tickRate        float64
	maxFreqErrorPpm float64
	precision       float64
	host            Host
}

// NewRootClock constructs a RootClock. Returns ErrInvalidArgument if
// cfg.TickRate is supplied and <= 0.
func NewRootClock(cfg RootClockConfig) (*RootClock, error) {
	tickRate := cfg.TickRate
	if tickRate == 0 {
		tickRate = 1000
	}
	if tickRate <= 0 {
		return nil, wrapf(ErrInvalidArgument, "root clock tickRate must be > 0, got %g", tickRate)
	}
	maxFreqErrorPpm := cfg.MaxFreqErrorPpm
	if maxFreqErrorPpm == 0 {
		maxFreqErrorPpm = DefaultMaxFreqErrorPpm
	}
	host := cfg.Host
	precision := cfg.Precision
	if host == nil {
		host = DefaultHost
		if precision == 0 {
			precision = DefaultPrecision
		}
	}
	return &RootClock{
		base:            newBase(),
		tickRate:        tickRate,
		maxFreqErrorPpm: maxFreqErrorPpm,
		precision:       precision,
		host:            host,
	}, nil
}

var _ Clock = (*RootClock)(nil)

func (r *RootClock) hostClock() Host { return r.host }

// Now implements Clock: hostNow (ms) * tickRate / 1000.
func (r *RootClock) Now() float64 {
	return r.host.NowMillis() * r.tickRate / 1000.0
}

// TickRate implements Clock.
func (r *RootClock) TickRate() float64 { return r.tickRate }

// SetTickRate implements Clock: roots are immutable.
func (r *RootClock) SetTickRate(float64) error {
	return wrapf(ErrImmutable, "root clock %s tickRate is immutable", r.id)
}

// Speed implements Clock: a root's own speed is always 1.
func (r *RootClock) Speed() float64 { return 1 }

// SetSpeed implements Clock: roots are immutable.
func (r *RootClock) SetSpeed(float64) error {
	return wrapf(ErrImmutable, "root clock %s speed is immutable", r.id)
}

// EffectiveSpeed implements Clock.
func (r *RootClock) EffectiveSpeed() float64 { return effectiveSpeedOf(r) }

// SetParent implements Clock: roots are immutable.
func (r *RootClock) SetParent(Clock) error {
	return wrapf(ErrImmutable, "root clock %s cannot be reparented", r.id)
}

// Root implements Clock: a root is its own root.
func (r *RootClock) Root() Clock { return r }

// Ancestry implements Clock.
func (r *RootClock) Ancestry() []Clock { return []Clock{r} }

// ToParentTime implements Clock: roots have no parent.
func (r *RootClock) ToParentTime(float64) (float64, error) {
	return 0, wrapf(ErrNoParent, "root clock %s has no parent", r.id)
}

// FromParentTime implements Clock: roots have no parent.
func (r *RootClock) FromParentTime(float64) (float64, error) {
	return 0, wrapf(ErrNoParent, "root clock %s has no parent", r.id)
}

// ToRootTime implements Clock: a root's root time is itself.
func (r *RootClock) ToRootTime(t float64) (float64, error) { return t, nil }

// FromRootTime implements Clock.
func (r *RootClock) FromRootTime(t float64) (float64, error) { return t, nil }

// ToOtherClockTime implements Clock.
func (r *RootClock) ToOtherClockTime(other Clock, t float64) (float64, error) {
	return toOtherClockTimeOf(r, other, t)
}

// CalcWhen implements Clock: t is already in the host-ms-equivalent
// frame after scaling by tickRate.
func (r *RootClock) CalcWhen(t float64) (float64, error) {
	return t * 1000.0 / r.tickRate, nil
}

// SetAvailabilityFlag implements Clock: a root rejects becoming
// unavailable.
func (r *RootClock) SetAvailabilityFlag(available bool) error {
	if !available {
		return wrapf(ErrImmutable, "root clock %s cannot be marked unavailable", r.id)
	}
	return r.base.setAvailabilityFlag(r, true)
}

// IsAvailable implements Clock.
func (r *RootClock) IsAvailable() bool { return isAvailableOf(r) }

// DispersionAtTime implements Clock: a root reports a fixed precision
// regardless of t.
func (r *RootClock) DispersionAtTime(float64) float64 { return r.precision }

// RootMaxFreqErrorPpm implements Clock.
func (r *RootClock) RootMaxFreqErrorPpm() float64 { return r.maxFreqErrorPpm }

// ClockDiff implements Clock.
func (r *RootClock) ClockDiff(other Clock) float64 { return clockDiffOf(r, other) }

// SetTimeout implements Clock.
func (r *RootClock) SetTimeout(fn TimerFunc, deltaTicks float64, args ...any) TimerID {
	return r.base.setTimeout(r, fn, deltaTicks, args...)
}

// SetAtTime implements Clock.
func (r *RootClock) SetAtTime(fn TimerFunc, when float64, args ...any) TimerID {
	return r.base.setAtTime(r, fn, when, args...)
}

// ClearTimeout implements Clock.
func (r *RootClock) ClearTimeout(id TimerID) { r.base.clearTimeout(r, id) }
