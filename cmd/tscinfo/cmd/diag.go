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
	"math"
	"time"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/tsc/cmd/tscinfo/checker"
)

// flag
var diagMeasureFlag time.Duration

type status int

// possible check results
const (
	OK status = iota
	WARN
	FAIL
)

// diagnoser is function that does checks on checker.Result
type diagnoser func(r *checker.Result) (status, string)

var okString = color.GreenString("[ OK ]")
var warnString = color.YellowString("[WARN]")
var failString = color.RedString("[FAIL]")

var statusToColor = []string{okString, warnString, failString}

// counter rates outside this range mean discovery returned nonsense
const (
	plausibleFreqMin = uint64(1_000_000)      // slowest arm64 counter-timers
	plausibleFreqMax = uint64(10_000_000_000) // no TSC ticks this fast
)

// drift between hardware-reported and measured rate
const (
	driftWarnPPM = 100.0
	driftFailPPM = 1000.0
)

func checkSupported(r *checker.Result) (status, string) {
	if !r.Supported {
		return FAIL, "no hardware cycle counter on this platform"
	}
	return OK, "hardware cycle counter present"
}

func checkResolve(r *checker.Result) (status, string) {
	if r.ResolveErr != nil {
		return FAIL, fmt.Sprintf("hardware frequency discovery failed: %v", r.ResolveErr)
	}
	return OK, fmt.Sprintf("hardware reports %d Hz via %s", r.FrequencyHz, r.Source)
}

func checkPlausible(r *checker.Result) (status, string) {
	if r.FrequencyHz == 0 {
		return WARN, "no hardware frequency to validate"
	}
	if r.FrequencyHz < plausibleFreqMin || r.FrequencyHz > plausibleFreqMax {
		return FAIL, fmt.Sprintf(
			"frequency %s Hz is outside the plausible range [%d, %d]",
			color.RedString("%d", r.FrequencyHz), plausibleFreqMin, plausibleFreqMax,
		)
	}
	return OK, fmt.Sprintf("frequency %s Hz is plausible", color.GreenString("%d", r.FrequencyHz))
}

func checkMonotonic(r *checker.Result) (status, string) {
	const reads = 100_000
	if !r.Supported {
		return WARN, "skipped, no counter to read"
	}
	if v := checker.CountMonotonicViolations(reads); v > 0 {
		return FAIL, fmt.Sprintf("%d of %d back-to-back reads went backwards", v, reads)
	}
	return OK, fmt.Sprintf("%d back-to-back reads, none went backwards", reads)
}

func checkDrift(r *checker.Result) (status, string) {
	ppm, ok := r.DriftPPM()
	if !ok {
		return WARN, "drift not measured, hardware or measured frequency unavailable"
	}
	absPPM := math.Abs(ppm)
	msgTemplate := "measured rate differs from hardware-reported by %s ppm, threshold %s"
	thresholdStr := color.BlueString("%.0f", driftWarnPPM)
	if absPPM > driftFailPPM {
		return FAIL, fmt.Sprintf(msgTemplate, color.RedString("%.1f", ppm), thresholdStr)
	}
	if absPPM > driftWarnPPM {
		return WARN, fmt.Sprintf(msgTemplate, color.YellowString("%.1f", ppm), thresholdStr)
	}
	return OK, fmt.Sprintf(msgTemplate, color.GreenString("%.1f", ppm), thresholdStr)
}

var diagnosers = []diagnoser{
	checkSupported,
	checkResolve,
	checkPlausible,
	checkMonotonic,
	checkDrift,
}

func runDiagnosers(r *checker.Result) {
	for _, check := range diagnosers {
		status, msg := check(r)
		fmt.Printf("%s %s\n", statusToColor[status], msg)
	}
}

func init() {
	RootCmd.AddCommand(diagCmd)
	diagCmd.Flags().DurationVarP(&diagMeasureFlag, "measure", "m", 200*time.Millisecond, "how long to sample the counter against the OS clock")
}

var diagCmd = &cobra.Command{
	Use:   "diag",
	Short: "Perform basic cycle counter diagnosis, report in human-readable form.",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()
		log.Debugf("probing counter, sampling for %v", diagMeasureFlag)
		result := checker.Run(diagMeasureFlag)
		runDiagnosers(result)
	},
}
