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

package clockstats

import (
	"sync"
	"sync/atomic"

	"github.com/eclesh/welford"

	"github.com/dvbcss/csclocks/clock"
)

// Tracker subscribes to a clock.Clock's change/available/unavailable
// events and accumulates a running mean/variance of its dispersion
// alongside simple event counters, without requiring the clock package
// to know it is being observed.
type Tracker struct {
	target clock.Clock

	changes     int64
	availables  int64
	unavailable int64

	mu         sync.Mutex
	dispersion *welford.Stats

	changeSub      int
	availableSub   int
	unavailableSub int
}

// NewTracker starts tracking target and returns the Tracker. Call
// Close to unsubscribe.
func NewTracker(target clock.Clock) *Tracker {
	t := &Tracker{target: target, dispersion: welford.New()}
	t.changeSub = target.On(clock.EventChange, func(c clock.Clock) {
		atomic.AddInt64(&t.changes, 1)
		t.sample(c)
	})
	t.availableSub = target.On(clock.EventAvailable, func(clock.Clock) {
		atomic.AddInt64(&t.availables, 1)
	})
	t.unavailableSub = target.On(clock.EventUnavailable, func(clock.Clock) {
		atomic.AddInt64(&t.unavailable, 1)
	})
	t.sample(target)
	return t
}

func (t *Tracker) sample(c clock.Clock) {
	d := c.DispersionAtTime(c.Now())
	t.mu.Lock()
	t.dispersion.Add(d)
	t.mu.Unlock()
}

// Close unsubscribes the tracker from its target. Safe to call more
// than once.
func (t *Tracker) Close() {
	t.target.Off(clock.EventChange, t.changeSub)
	t.target.Off(clock.EventAvailable, t.availableSub)
	t.target.Off(clock.EventUnavailable, t.unavailableSub)
}

// Snapshot is a point-in-time view of everything a Tracker has
// observed. Its fields are read one after another, not under a single
// lock, so they are not guaranteed to be mutually consistent.
type Snapshot struct {
	ClockID             string  `json:"clock_id"`
	Now                 float64 `json:"now"`
	TickRate            float64 `json:"tick_rate"`
	EffectiveSpeed      float64 `json:"effective_speed"`
	IsAvailable         bool    `json:"is_available"`
	ChangeCount         int64   `json:"change_count"`
	AvailableCount      int64   `json:"available_count"`
	UnavailableCount    int64   `json:"unavailable_count"`
	DispersionMean      float64 `json:"dispersion_mean"`
	DispersionStddev    float64 `json:"dispersion_stddev"`
	DispersionSampleCnt int64   `json:"dispersion_sample_count"`
	DescendantCount     int     `json:"descendant_count"`
}

// Snapshot reads the tracker's current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	mean := t.dispersion.Mean()
	stddev := t.dispersion.Stddev()
	count := t.dispersion.Count()
	t.mu.Unlock()

	return Snapshot{
		ClockID:             t.target.ID(),
		Now:                 t.target.Now(),
		TickRate:            t.target.TickRate(),
		EffectiveSpeed:      t.target.EffectiveSpeed(),
		IsAvailable:         t.target.IsAvailable(),
		ChangeCount:         atomic.LoadInt64(&t.changes),
		AvailableCount:      atomic.LoadInt64(&t.availables),
		UnavailableCount:    atomic.LoadInt64(&t.unavailable),
		DispersionMean:      mean,
		DispersionStddev:    stddev,
		DispersionSampleCnt: int64(count),
		DescendantCount:     len(clock.Descendants(t.target)),
	}
}
