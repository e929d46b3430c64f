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
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/tsc/cmd/tscinfo/checker"
)

var freqMeasureFlag time.Duration

func init() {
	RootCmd.AddCommand(freqCmd)
	freqCmd.Flags().DurationVarP(&freqMeasureFlag, "measure", "m", 200*time.Millisecond, "how long to sample the counter against the OS clock")
}

func freqRun(measure time.Duration) error {
	r := checker.Run(measure)
	if !r.Supported {
		return fmt.Errorf("no hardware cycle counter on this platform")
	}
	if r.BrandName != "" {
		fmt.Printf("CPU: %s (%s)\n", r.BrandName, r.VendorID)
	}
	var rows [][]string
	if r.ResolveErr != nil {
		rows = append(rows, []string{"hardware", "-", r.ResolveErr.Error()})
	} else {
		rows = append(rows, []string{"hardware", fmt.Sprintf("%d", r.FrequencyHz), r.Source})
	}
	if r.MeasureErr != nil {
		rows = append(rows, []string{"measured", "-", r.MeasureErr.Error()})
	} else {
		rows = append(rows, []string{"measured", fmt.Sprintf("%d", r.MeasuredHz), fmt.Sprintf("sampled against OS clock over %v", measure)})
	}
	if info, err := cpu.Info(); err == nil && len(info) > 0 {
		// core frequency, not the counter rate, but a useful sanity reference
		rows = append(rows, []string{"kernel", fmt.Sprintf("%d", uint64(info[0].Mhz*1_000_000)), "core frequency reported by the OS"})
	} else if err != nil {
		log.Debugf("reading CPU info from the OS: %v", err)
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("source", "frequency (hz)", "details")
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("building frequency table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering frequency table: %w", err)
	}
	return nil
}

var freqCmd = &cobra.Command{
	Use:   "freq",
	Short: "Print the counter tick rate from hardware, measurement and the OS",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()
		if err := freqRun(freqMeasureFlag); err != nil {
			log.Fatal(err)
		}
	},
}
