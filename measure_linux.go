//go:build linux

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
	"time"

	"golang.org/x/sys/unix"
)

var monotonicBase = time.Now()

// monotonicNanoseconds reads CLOCK_MONOTONIC_RAW, which NTP does not slew
// and is therefore the right reference to calibrate a fixed-rate counter
// against. Only differences between two readings are meaningful.
func monotonicNanoseconds() int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts); err != nil {
		// present since kernel 2.6.28; if it somehow fails, the Go runtime's
		// monotonic reading is still good enough for a rate estimate
		return time.Since(monotonicBase).Nanoseconds()
	}
	return ts.Nano()
}
