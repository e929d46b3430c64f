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

// ReadCounter returns the current value of the virtual counter-timer
// (CNTVCT_EL0). The architecture orders reads of this register with respect
// to preceding instructions, so no explicit barrier is needed. Implemented
// in counter_arm64.s.
func ReadCounter() uint64

// counterFrequency returns the counter-timer frequency register
// (CNTFRQ_EL0), programmed by firmware at boot. Implemented in
// counter_arm64.s.
func counterFrequency() uint64

// Supported reports whether this build can read a hardware cycle counter.
func Supported() bool { return true }
