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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMeasurePrecisionPicksSmallestPositiveDelta(t *testing.T) {
	readings := []float64{10, 10, 15, 15.1, 30}
	i := 0
	read := func() float64 {
		v := readings[i]
		if i < len(readings)-1 {
			i++
		}
		return v
	}
	got := MeasurePrecision(read, len(readings))
	require.InDelta(t, 0.1, got, 1e-9)
}

func TestMeasurePrecisionNoAdvanceReturnsZero(t *testing.T) {
	read := func() float64 { return 42 }
	require.Zero(t, MeasurePrecision(read, 10))
}

func TestMeasurePrecisionTooFewSamplesReturnsZero(t *testing.T) {
	read := func() float64 { return 1 }
	require.Zero(t, MeasurePrecision(read, 1))
	require.Zero(t, MeasurePrecision(read, 0))
}
