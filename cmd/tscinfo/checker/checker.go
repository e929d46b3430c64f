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

// Package checker probes the hardware cycle counter and bundles the findings
// for the tscinfo subcommands.
package checker

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/facebook/tsc"
)

// Result is everything tscinfo needs to know about the counter on this
// machine.
type Result struct {
	// Supported tells whether this build can read a cycle counter at all.
	Supported bool
	// Source names where the hardware frequency comes from on this
	// architecture ("cpuid", "cntfrq_el0" or "none").
	Source string
	// FrequencyHz is the hardware-reported tick rate, 0 when ResolveErr is set.
	FrequencyHz uint64
	// ResolveErr is the failure from hardware frequency discovery, if any.
	ResolveErr error
	// MeasuredHz is the tick rate sampled against the OS monotonic clock,
	// 0 when MeasureErr is set.
	MeasuredHz uint64
	// MeasureErr is the failure from measured calibration, if any.
	MeasureErr error
	// VendorID and BrandName identify the CPU where the architecture
	// exposes them, "" otherwise.
	VendorID  string
	BrandName string
}

// Run probes the counter, calibrating both from hardware and against the OS
// clock over measureInterval (tsc.DefaultMeasureInterval when <= 0).
func Run(measureInterval time.Duration) *Result {
	r := &Result{
		Supported: tsc.Supported(),
		Source:    counterSource(),
		VendorID:  tsc.VendorID(),
		BrandName: tsc.BrandName(),
	}
	if !r.Supported {
		return r
	}
	c, err := tsc.New()
	if err != nil {
		r.ResolveErr = err
	} else {
		r.FrequencyHz = c.FrequencyHz()
		log.Debugf("hardware frequency discovery (%s): %d Hz", r.Source, r.FrequencyHz)
	}
	m, err := tsc.NewMeasured(measureInterval)
	if err != nil {
		r.MeasureErr = err
	} else {
		r.MeasuredHz = m.FrequencyHz()
		log.Debugf("measured frequency over %v: %d Hz", measureInterval, r.MeasuredHz)
	}
	return r
}

// DriftPPM returns how far the measured tick rate is from the
// hardware-reported one, in parts per million. ok is false when either rate
// is missing.
func (r *Result) DriftPPM() (ppm float64, ok bool) {
	if r.FrequencyHz == 0 || r.MeasuredHz == 0 {
		return 0, false
	}
	diff := float64(r.MeasuredHz) - float64(r.FrequencyHz)
	return diff / float64(r.FrequencyHz) * 1e6, true
}

// CountMonotonicViolations reads the counter n times back to back and counts
// how many reads went backwards. On a synchronized invariant counter the
// answer is zero; anything else means the counter domain assumption does not
// hold on this machine.
func CountMonotonicViolations(n int) int {
	violations := 0
	prev := tsc.ReadCounter()
	for i := 0; i < n; i++ {
		cur := tsc.ReadCounter()
		if cur < prev {
			violations++
		}
		prev = cur
	}
	return violations
}

func counterSource() string {
	switch runtime.GOARCH {
	case "amd64":
		return "cpuid"
	case "arm64":
		return "cntfrq_el0"
	default:
		return "none"
	}
}
