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

import "fmt"

// Correlation anchors the linear relationship between a clock and its
// parent: at ParentTime the parent clock reads ParentTime, and at that
// same instant the child clock reads ChildTime. InitialError is the
// error, in seconds, already accumulated at that pivot; ErrorGrowthRate
// is how fast the error grows per second of parent time elapsed since
// the pivot. Correlation is immutable: every mutating-looking operation
// returns a new value.
type Correlation struct {
	ParentTime      float64
	ChildTime       float64
	InitialError    float64
	ErrorGrowthRate float64
}

// CorrelationOverrides carries a subset of Correlation's fields to apply
// on top of an existing value via ButWith. A nil field is left
// unchanged.
type CorrelationOverrides struct {
	ParentTime      *float64
	ChildTime       *float64
	InitialError    *float64
	ErrorGrowthRate *float64
}

// ZeroCorrelation is the all-zero correlation used as the default for a
// freshly constructed CorrelatedClock.
var ZeroCorrelation = Correlation{}

// NewCorrelation builds a Correlation from up to four positional
// scalars: parentTime, childTime, initialError, errorGrowthRate. Missing
// trailing arguments default to zero.
func NewCorrelation(values ...float64) Correlation {
	var c Correlation
	if len(values) > 0 {
		c.ParentTime = values[0]
	}
	if len(values) > 1 {
		c.ChildTime = values[1]
	}
	if len(values) > 2 {
		c.InitialError = values[2]
	}
	if len(values) > 3 {
		c.ErrorGrowthRate = values[3]
	}
	return c
}

// NewCorrelationAt is the "single scalar interpreted as parentTime"
// constructor shape.
func NewCorrelationAt(parentTime float64) Correlation {
	return Correlation{ParentTime: parentTime}
}

// Equal reports whether two correlations are equal in all four fields.
func (c Correlation) Equal(other Correlation) bool {
	return c.ParentTime == other.ParentTime &&
		c.ChildTime == other.ChildTime &&
		c.InitialError == other.InitialError &&
		c.ErrorGrowthRate == other.ErrorGrowthRate
}

// ButWith returns a new Correlation differing from c only in the fields
// set in overrides. Supplying a zero-value CorrelationOverrides returns
// c unchanged. This is the strict variant of a butWith: there is no way
// to pass an "unknown field" through Go's type system, so the
// InvalidArgument case a dynamically-typed equivalent would need for
// unknown override keys never arises here.
func (c Correlation) ButWith(overrides CorrelationOverrides) Correlation {
	out := c
	if overrides.ParentTime != nil {
		out.ParentTime = *overrides.ParentTime
	}
	if overrides.ChildTime != nil {
		out.ChildTime = *overrides.ChildTime
	}
	if overrides.InitialError != nil {
		out.InitialError = *overrides.InitialError
	}
	if overrides.ErrorGrowthRate != nil {
		out.ErrorGrowthRate = *overrides.ErrorGrowthRate
	}
	return out
}

// String renders the correlation for logging/debugging.
func (c Correlation) String() string {
	return fmt.Sprintf("Correlation{parentTime=%g childTime=%g initialError=%g errorGrowthRate=%g}",
		c.ParentTime, c.ChildTime, c.InitialError, c.ErrorGrowthRate)
}

// F64 is a small helper for building CorrelationOverrides literals
// without spelling out a local variable at each call site, e.g.
// c.ButWith(CorrelationOverrides{ChildTime: F64(320)}).
func F64(v float64) *float64 {
	return &v
}
