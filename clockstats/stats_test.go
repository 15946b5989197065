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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dvbcss/csclocks/clock"
)

func TestTrackerCountsChangeEvents(t *testing.T) {
	root, err := clock.NewRootClock(clock.RootClockConfig{TickRate: 1000})
	require.NoError(t, err)
	child, err := clock.NewCorrelatedClock(root, clock.DefaultCorrelatedClockConfig())
	require.NoError(t, err)

	tr := NewTracker(child)
	defer tr.Close()

	require.NoError(t, child.SetSpeed(2))
	require.NoError(t, child.SetSpeed(3))

	snap := tr.Snapshot()
	require.Equal(t, int64(2), snap.ChangeCount)
	require.Equal(t, child.ID(), snap.ClockID)
}

func TestTrackerCountsAvailabilityFlips(t *testing.T) {
	root, err := clock.NewRootClock(clock.RootClockConfig{TickRate: 1000})
	require.NoError(t, err)
	child, err := clock.NewCorrelatedClock(root, clock.DefaultCorrelatedClockConfig())
	require.NoError(t, err)

	tr := NewTracker(child)
	defer tr.Close()

	require.NoError(t, child.SetAvailabilityFlag(false))
	require.NoError(t, child.SetAvailabilityFlag(true))

	snap := tr.Snapshot()
	require.Equal(t, int64(1), snap.UnavailableCount)
	require.Equal(t, int64(1), snap.AvailableCount)
	require.True(t, snap.IsAvailable)
}

func TestTrackerCloseStopsCounting(t *testing.T) {
	root, err := clock.NewRootClock(clock.RootClockConfig{TickRate: 1000})
	require.NoError(t, err)
	child, err := clock.NewCorrelatedClock(root, clock.DefaultCorrelatedClockConfig())
	require.NoError(t, err)

	tr := NewTracker(child)
	tr.Close()

	require.NoError(t, child.SetSpeed(2))
	snap := tr.Snapshot()
	require.Equal(t, int64(0), snap.ChangeCount)
}

func TestTrackerSnapshotReportsDescendantCount(t *testing.T) {
	root, err := clock.NewRootClock(clock.RootClockConfig{TickRate: 1000})
	require.NoError(t, err)
	childA, err := clock.NewCorrelatedClock(root, clock.DefaultCorrelatedClockConfig())
	require.NoError(t, err)
	_, err = clock.NewCorrelatedClock(childA, clock.DefaultCorrelatedClockConfig())
	require.NoError(t, err)

	tr := NewTracker(root)
	defer tr.Close()

	require.Equal(t, 2, tr.Snapshot().DescendantCount)
}

func TestTrackerDispersionSamplesAccumulate(t *testing.T) {
	root, err := clock.NewRootClock(clock.RootClockConfig{TickRate: 1000, Precision: 0.001})
	require.NoError(t, err)
	child, err := clock.NewCorrelatedClock(root, clock.DefaultCorrelatedClockConfig())
	require.NoError(t, err)

	tr := NewTracker(child)
	defer tr.Close()

	require.NoError(t, child.SetSpeed(2))
	require.NoError(t, child.SetSpeed(3))

	snap := tr.Snapshot()
	require.Equal(t, int64(3), snap.DispersionSampleCnt) // initial sample + 2 changes
	require.InDelta(t, 0.001, snap.DispersionMean, 1e-9)
}
