/*
Copyright (c) Facebook, Inc. and its affiliates.

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

package tsc

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMeasuredUnsupported(t *testing.T) {
	if Supported() {
		t.Skip("this build has a hardware counter")
	}
	_, err := NewMeasured(0)
	require.ErrorIs(t, err, ErrCounterNotSupported)
}

func TestNewMeasuredPlausible(t *testing.T) {
	if !Supported() {
		t.Skip("no hardware counter on this platform")
	}
	c, err := NewMeasured(100 * time.Millisecond)
	require.NoError(t, err)
	// arm64 counter-timers go down to ~1MHz, x86 TSCs top out below 10GHz
	require.GreaterOrEqual(t, c.FrequencyHz(), uint64(900_000))
	require.LessOrEqual(t, c.FrequencyHz(), uint64(10_000_000_000))
}

func TestNewMeasuredAgreesWithHardware(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping measured calibration in short mode")
	}
	c, err := New()
	if err != nil {
		t.Skipf("hardware calibration unavailable: %v", err)
	}
	m, err := NewMeasured(500 * time.Millisecond)
	require.NoError(t, err)
	// 0.5% covers scheduler jitter at the sample edges many times over
	require.InEpsilon(t, float64(c.FrequencyHz()), float64(m.FrequencyHz()), 0.005)
}

// End-to-end calibration check: elapsed time derived from the counter has to
// track the OS monotonic clock.
func TestDriftAgainstSystemClock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping drift measurement in short mode")
	}
	c, err := New()
	if err != nil {
		var merr error
		c, merr = NewMeasured(0)
		if merr != nil {
			t.Skipf("no usable calibration: %v / %v", err, merr)
		}
	}
	start := time.Now()
	n0 := c.NowNanoseconds()
	time.Sleep(3 * time.Second)
	n1 := c.NowNanoseconds()
	sysElapsed := time.Since(start)

	counterElapsed := time.Duration(n1 - n0)
	drift := math.Abs(float64(counterElapsed-sysElapsed)) / float64(sysElapsed)
	require.Less(t, drift, 0.01, "counter measured %v, OS clock measured %v", counterElapsed, sysElapsed)
}
