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

import (
	"bytes"
	"strings"
)

// cpuid executes the CPUID instruction for the given leaf and subleaf.
// Implemented in cpuid_amd64.s.
func cpuid(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32)

// CPUID leaves used for counter discovery and CPU identification.
const (
	leafVendorID      = 0x0        // max basic leaf + vendor string
	leafFeatureInfo   = 0x1        // basic feature bits
	leafTimingParams  = 0x15       // TSC/crystal ratio and crystal frequency
	leafFrequencyInfo = 0x16       // core base frequency in MHz
	leafExtendedMax   = 0x80000000 // max extended leaf
	leafBrandString   = 0x80000002 // brand string, 3 consecutive leaves
	leafPowerMgmt     = 0x80000007 // advanced power management feature bits
)

// Capability bits, both in EDX of their respective leaves.
const (
	featureTSC          = 1 << 4 // leafFeatureInfo: TSC present
	featureInvariantTSC = 1 << 8 // leafPowerMgmt: TSC rate independent of power states
)

// VendorID returns the 12-byte CPU vendor identification string,
// e.g. "GenuineIntel" or "AuthenticAMD".
func VendorID() string {
	_, ebx, ecx, edx := cpuid(leafVendorID, 0)
	b := make([]byte, 0, 12)
	// register order for the vendor string is EBX, EDX, ECX
	for _, r := range []uint32{ebx, edx, ecx} {
		b = append(b, byte(r), byte(r>>8), byte(r>>16), byte(r>>24))
	}
	return string(b)
}

// BrandName returns the processor brand string, or "" when the brand string
// leaves are not implemented.
func BrandName() string {
	maxExt, _, _, _ := cpuid(leafExtendedMax, 0)
	if maxExt < leafBrandString+2 {
		return ""
	}
	b := make([]byte, 0, 48)
	for leaf := uint32(leafBrandString); leaf <= leafBrandString+2; leaf++ {
		eax, ebx, ecx, edx := cpuid(leaf, 0)
		for _, r := range []uint32{eax, ebx, ecx, edx} {
			b = append(b, byte(r), byte(r>>8), byte(r>>16), byte(r>>24))
		}
	}
	return strings.TrimSpace(string(bytes.TrimRight(b, "\x00")))
}
