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

package cmd

import (
	"fmt"
	"time"

	"github.com/eclesh/welford"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/tsc"
)

var benchIterationsFlag int

func init() {
	RootCmd.AddCommand(benchCmd)
	benchCmd.Flags().IntVarP(&benchIterationsFlag, "iterations", "i", 1_000_000, "how many timestamp calls to take per clock")
}

func benchRun(iterations int) error {
	if !tsc.Supported() {
		return fmt.Errorf("no hardware cycle counter on this platform")
	}
	c, err := tsc.New()
	if err != nil {
		log.Debugf("hardware calibration unavailable (%v), measuring instead", err)
		if c, err = tsc.NewMeasured(0); err != nil {
			return fmt.Errorf("calibrating counter: %w", err)
		}
	}

	// distance between back-to-back reads is the per-read cost in ticks
	stats := welford.New()
	prev := tsc.ReadCounter()
	for i := 0; i < iterations; i++ {
		cur := tsc.ReadCounter()
		stats.Add(float64(cur - prev))
		prev = cur
	}
	meanNS := stats.Mean() / float64(c.FrequencyHz()) * 1e9
	fmt.Printf("ReadCounter: mean %.1f ticks (%.1f ns), stddev %.1f ticks, %d reads\n",
		stats.Mean(), meanNS, stats.Stddev(), iterations)

	// wall time per call, counter-based timestamps vs the OS clock
	var tickSink uint64
	start := time.Now()
	for i := 0; i < iterations; i++ {
		tickSink += c.NowNanoseconds()
	}
	counterCost := time.Since(start)

	var osSink int64
	start = time.Now()
	for i := 0; i < iterations; i++ {
		osSink += time.Now().UnixNano()
	}
	osCost := time.Since(start)

	if tickSink == 0 || osSink == 0 {
		// the sinks only exist to keep the loops from being optimized out
		log.Debugf("unexpected zero accumulator: %d %d", tickSink, osSink)
	}
	fmt.Printf("NowNanoseconds: %.1f ns/call\n", float64(counterCost.Nanoseconds())/float64(iterations))
	fmt.Printf("time.Now:       %.1f ns/call\n", float64(osCost.Nanoseconds())/float64(iterations))
	return nil
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure per-call cost of counter timestamps vs the OS clock",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()
		if err := benchRun(benchIterationsFlag); err != nil {
			log.Fatal(err)
		}
	},
}
