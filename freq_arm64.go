//go:build arm64

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

// resolveFrequency reads the tick rate straight from CNTFRQ_EL0. The
// architecture gives no capability bit to check; the only failure mode is
// firmware that never programmed the register, which would otherwise turn
// every conversion into a divide by zero.
func resolveFrequency() (uint64, error) {
	freq := counterFrequency()
	if freq == 0 {
		return 0, ErrZeroCounterFrequency
	}
	return freq, nil
}
