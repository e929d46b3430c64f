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

// ReadCounter returns the current raw value of the time-stamp counter.
//
// An LFENCE precedes the RDTSC so the read cannot be ordered ahead of
// instructions that come before the call; nothing stops later instructions
// from executing before the read. Implemented in counter_amd64.s as a
// NOSPLIT leaf to keep per-call overhead at the floor of what a non-inlined
// function costs.
func ReadCounter() uint64

// Supported reports whether this build can read a hardware cycle counter.
func Supported() bool { return true }
