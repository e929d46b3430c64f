//go:build amd64

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

// resolveFrequency discovers the TSC tick rate from CPUID.
//
// The TSC must exist and be invariant, otherwise the fixed-frequency
// conversion math would go wrong the moment the CPU changes power state.
// The rate itself comes from the timing-parameters leaf: crystal frequency
// scaled by the TSC/crystal ratio. CPUs that implement the leaf but leave
// the crystal frequency at zero (many Intel desktop parts) fall back to the
// core base frequency leaf, which reports MHz.
//
// Leaves above the CPU's advertised maximum return garbage rather than
// failing, so the maximums are checked before each gated leaf and map to the
// same errors as unusable leaf values.
func resolveFrequency() (uint64, error) {
	maxBasic, _, _, _ := cpuid(leafVendorID, 0)
	_, _, _, edx := cpuid(leafFeatureInfo, 0)
	if edx&featureTSC == 0 {
		return 0, ErrCounterNotSupported
	}
	maxExt, _, _, _ := cpuid(leafExtendedMax, 0)
	if maxExt < leafPowerMgmt {
		return 0, ErrInvariantCounterNotSupported
	}
	_, _, _, edx = cpuid(leafPowerMgmt, 0)
	if edx&featureInvariantTSC == 0 {
		return 0, ErrInvariantCounterNotSupported
	}
	if maxBasic < leafTimingParams {
		return 0, ErrTimingLeafUnsupported
	}
	den, num, crystalHz, _ := cpuid(leafTimingParams, 0)
	if den == 0 || num == 0 {
		return 0, ErrTimingLeafUnsupported
	}
	if crystalHz != 0 {
		// widen before multiplying: crystal * num overflows 32 bits
		return uint64(crystalHz) * uint64(num) / uint64(den), nil
	}
	if maxBasic < leafFrequencyInfo {
		return 0, ErrFrequencyLeafUnsupported
	}
	baseMHz, _, _, _ := cpuid(leafFrequencyInfo, 0)
	if baseMHz == 0 {
		return 0, ErrFrequencyLeafUnsupported
	}
	return uint64(baseMHz) * 1_000_000, nil
}
