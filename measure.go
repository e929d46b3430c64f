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
	"fmt"
	"time"
)

// DefaultMeasureInterval is a sampling window long enough to keep scheduler
// noise at both edges well under the measurement error budget.
const DefaultMeasureInterval = 200 * time.Millisecond

// NewMeasured derives the counter tick rate by sampling it against the OS
// monotonic clock over the given interval (DefaultMeasureInterval when
// sample <= 0), then returns a calibration handle built from that rate.
//
// This is the fallback for machines where New fails: CPUs predating the
// timing leaves, or virtualized guests with filtered CPUID. It deliberately
// skips the invariant-counter capability check, so on hardware where the
// counter rate follows power states the measured rate is only as good as the
// CPU's behavior during the sample. The longer the interval, the better the
// estimate.
func NewMeasured(sample time.Duration) (Clock, error) {
	if !Supported() {
		return Clock{}, ErrCounterNotSupported
	}
	if sample <= 0 {
		sample = DefaultMeasureInterval
	}
	// warm the read path so the first timed read is not a cold outlier
	ReadCounter()
	ReadCounter()

	startNS := monotonicNanoseconds()
	startTicks := ReadCounter()
	time.Sleep(sample)
	endTicks := ReadCounter()
	endNS := monotonicNanoseconds()

	elapsedNS := endNS - startNS
	if elapsedNS <= 0 || endTicks <= startTicks {
		return Clock{}, fmt.Errorf("sampling counter over %v: %w", sample, ErrMeasurementTooShort)
	}
	// float64 keeps the full-range multiplication exact to ~53 bits, which is
	// far below the scheduler jitter already present in the sample
	freq := uint64(float64(endTicks-startTicks) * nsPerSec / float64(elapsedNS))
	if freq == 0 {
		return Clock{}, fmt.Errorf("sampling counter over %v: %w", sample, ErrMeasurementTooShort)
	}
	return Clock{freqHz: freq}, nil
}
