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
	"errors"
	"math"
	"time"
)

// Frequency discovery errors. All of them are construction-time: once a Clock
// exists, reads and conversions cannot fail.
var (
	// ErrCounterNotSupported means the CPU reports no usable cycle counter,
	// or the build targets an architecture without one.
	ErrCounterNotSupported = errors.New("hardware cycle counter not supported")
	// ErrInvariantCounterNotSupported means the counter exists but changes
	// rate with CPU power states, so it cannot back a fixed-rate clock.
	ErrInvariantCounterNotSupported = errors.New("hardware cycle counter is not invariant")
	// ErrTimingLeafUnsupported means the CPUID timing-parameters leaf
	// returned unusable (zero) values on this CPU model.
	ErrTimingLeafUnsupported = errors.New("cpuid timing leaf returned unusable values")
	// ErrFrequencyLeafUnsupported means the fallback CPUID frequency leaf
	// reported a zero base frequency.
	ErrFrequencyLeafUnsupported = errors.New("cpuid frequency leaf reported zero base frequency")
	// ErrZeroCounterFrequency means the counter frequency register was never
	// programmed by firmware.
	ErrZeroCounterFrequency = errors.New("counter frequency register reads zero")
	// ErrMeasurementTooShort means NewMeasured could not observe enough
	// counter movement to derive a rate.
	ErrMeasurementTooShort = errors.New("measurement interval too short to calibrate")
)

const nsPerSec = 1_000_000_000

// Clock is an immutable calibration handle: the counter's tick rate, resolved
// once, used for every subsequent conversion. The zero Clock is not valid;
// obtain one from New or NewMeasured.
type Clock struct {
	freqHz uint64
}

// New resolves the hardware counter frequency and returns a calibration
// handle for it. Resolution queries only ambient CPU state (CPUID leaves on
// x86-64, the counter-timer frequency register on arm64), so the result never
// changes within a process; callers should resolve once and share the Clock.
//
// Any returned error means the hardware time source is unavailable on this
// machine, and the caller should fall back to an OS clock or to NewMeasured.
func New() (Clock, error) {
	freq, err := resolveFrequency()
	if err != nil {
		return Clock{}, err
	}
	return Clock{freqHz: freq}, nil
}

// FrequencyHz returns the counter's tick rate.
func (c Clock) FrequencyHz() uint64 {
	return c.freqHz
}

// Nanoseconds converts a raw tick count to nanoseconds.
//
// The naive ticks*1e9/freq overflows 64 bits for counter values a machine
// reaches within hours, so seconds are split off first and only the
// sub-second remainder is multiplied. The fractional nanosecond truncates.
// A tick count so large that even the whole-second term overflows (over five
// centuries at realistic frequencies) saturates to the maximum uint64.
func (c Clock) Nanoseconds(ticks uint64) uint64 {
	secs := ticks / c.freqHz
	rem := ticks % c.freqHz
	if secs >= math.MaxUint64/nsPerSec {
		return math.MaxUint64
	}
	return secs*nsPerSec + rem*nsPerSec/c.freqHz
}

// Seconds converts a raw tick count to fractional seconds. Float precision
// makes this suitable for short relative durations, not for absolute time.
func (c Clock) Seconds(ticks uint64) float64 {
	return float64(ticks) / float64(c.freqHz)
}

// Elapsed converts the delta between two counter readings into a Duration.
// Returns 0 if end precedes start, which within one counter domain only
// happens on misuse (readings from different machines or a counter wrap).
// Deltas past what time.Duration can hold (~292 years) clamp to the maximum
// rather than going negative.
func (c Clock) Elapsed(start, end uint64) time.Duration {
	if end <= start {
		return 0
	}
	ns := c.Nanoseconds(end - start)
	if ns > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ns)
}

// NowNanoseconds reads the counter and returns it as nanoseconds since the
// counter's zero point (typically CPU reset). Only differences between two
// values from the same machine are meaningful.
func (c Clock) NowNanoseconds() uint64 {
	return c.Nanoseconds(ReadCounter())
}

// NowSeconds reads the counter and returns it as fractional seconds.
func (c Clock) NowSeconds() float64 {
	return c.Seconds(ReadCounter())
}
