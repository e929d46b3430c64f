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

// realistic tick rates: slow arm64 counter-timers through fast x86 TSCs
var testFrequencies = []uint64{
	1_000_000,
	19_200_000,
	24_000_000,
	1_000_000_000,
	2_200_000_000,
	3_000_000_000,
	10_000_000_000,
}

func TestNanosecondsFullSecond(t *testing.T) {
	for _, freq := range testFrequencies {
		c := Clock{freqHz: freq}
		require.Equal(t, uint64(1_000_000_000), c.Nanoseconds(freq), "freq=%d", freq)
	}
}

func TestNanosecondsWorkedExample(t *testing.T) {
	c := Clock{freqHz: 3_000_000_000}
	require.Equal(t, uint64(1_000_000_000), c.Nanoseconds(3_000_000_000))
	require.Equal(t, uint64(500_000_000), c.Nanoseconds(1_500_000_000))
}

func TestNanosecondsTruncates(t *testing.T) {
	c := Clock{freqHz: 3_000_000_000}
	// one tick at 3GHz is a third of a nanosecond, which truncates to zero
	require.Equal(t, uint64(0), c.Nanoseconds(1))
	require.Equal(t, uint64(0), c.Nanoseconds(2))
	require.Equal(t, uint64(1), c.Nanoseconds(3))
	require.Equal(t, uint64(1), c.Nanoseconds(5))
}

func TestZeroTicks(t *testing.T) {
	for _, freq := range testFrequencies {
		c := Clock{freqHz: freq}
		require.Equal(t, uint64(0), c.Nanoseconds(0))
		require.Equal(t, 0.0, c.Seconds(0))
	}
}

func TestSecondsFullSecond(t *testing.T) {
	for _, freq := range testFrequencies {
		c := Clock{freqHz: freq}
		require.InEpsilon(t, 1.0, c.Seconds(freq), 1e-12)
		require.InEpsilon(t, 0.5, c.Seconds(freq/2), 1e-9)
	}
}

func TestNanosecondsNoOverflow(t *testing.T) {
	for _, freq := range testFrequencies {
		c := Clock{freqHz: freq}
		got := c.Nanoseconds(math.MaxUint64)
		// the naive ticks*1e9 would have wrapped to a tiny value; the split
		// conversion must stay at or above the whole-second term
		secs := math.MaxUint64 / freq
		if secs >= math.MaxUint64/1_000_000_000 {
			require.Equal(t, uint64(math.MaxUint64), got, "freq=%d", freq)
		} else {
			require.Equal(t, secs*1_000_000_000+(math.MaxUint64%freq)*1_000_000_000/freq, got, "freq=%d", freq)
		}
	}
}

func TestNanosecondsSaturates(t *testing.T) {
	// at 1MHz a full uint64 of ticks is ~584k years, far past what fits in
	// uint64 nanoseconds
	c := Clock{freqHz: 1_000_000}
	require.Equal(t, uint64(math.MaxUint64), c.Nanoseconds(math.MaxUint64))
}

func TestNanosecondsMonotoneInTicks(t *testing.T) {
	c := Clock{freqHz: 2_200_000_000}
	prev := uint64(0)
	for _, ticks := range []uint64{0, 1, 1000, c.freqHz - 1, c.freqHz, c.freqHz + 1, math.MaxUint64 / 2, math.MaxUint64} {
		got := c.Nanoseconds(ticks)
		require.GreaterOrEqual(t, got, prev, "ticks=%d", ticks)
		prev = got
	}
}

func TestElapsed(t *testing.T) {
	c := Clock{freqHz: 1_000_000_000}
	require.Equal(t, 1500*time.Nanosecond, c.Elapsed(0, 1500))
	require.Equal(t, time.Second, c.Elapsed(500, 1_000_000_500))
	// inverted or equal readings clamp to zero rather than wrapping
	require.Equal(t, time.Duration(0), c.Elapsed(1500, 1500))
	require.Equal(t, time.Duration(0), c.Elapsed(1500, 0))
}

func TestElapsedClampsHugeDeltas(t *testing.T) {
	// a full uint64 of ticks at 1MHz saturates the nanosecond conversion,
	// which must clamp to the maximum Duration instead of going negative
	c := Clock{freqHz: 1_000_000}
	got := c.Elapsed(0, math.MaxUint64)
	require.Equal(t, time.Duration(math.MaxInt64), got)
	require.Greater(t, got, time.Duration(0))
}

func TestFrequencyHz(t *testing.T) {
	c := Clock{freqHz: 24_000_000}
	require.Equal(t, uint64(24_000_000), c.FrequencyHz())
}

func TestNewDeterministic(t *testing.T) {
	c1, err1 := New()
	c2, err2 := New()
	if err1 != nil {
		// same machine, same ambient CPU state: the error must repeat
		require.ErrorIs(t, err2, err1)
		return
	}
	require.NoError(t, err2)
	require.Equal(t, c1.FrequencyHz(), c2.FrequencyHz())
	require.Greater(t, c1.FrequencyHz(), uint64(0))
}
