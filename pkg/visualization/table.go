// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package visualization renders experiment results for the terminal.
package visualization

import (
	"fmt"
	"math"
	"strconv"

	"code.cloudfoundry.org/bytefmt"
	"github.com/intelsdi-x/kldetect/pkg/experiment"
	"github.com/intelsdi-x/kldetect/pkg/response"
)

// ResultsHeaders are columns of ResultsTable.
var ResultsHeaders = []string{"PID", "Name", "Path", "PCC", "Avg write/interval", "Threshold", "Detected"}

// ResultsTable returns one row per analyzed process, in given order.
func ResultsTable(results []experiment.DetectionResult) *Table {
	data := [][]string{}
	for _, result := range results {
		data = append(data, []string{
			strconv.Itoa(int(result.PID)),
			result.Name,
			result.Path,
			FormatCorrelation(result.Correlation),
			bytefmt.ByteSize(uint64(result.AverageBytes + 0.5)),
			strconv.FormatFloat(result.Threshold, 'f', 2, 64),
			strconv.FormatBool(result.Detected()),
		})
	}
	return NewTable(ResultsHeaders, data)
}

// FormatCorrelation prints defined correlations with 4 decimals.
func FormatCorrelation(value float64) string {
	if math.IsNaN(value) {
		return "undefined"
	}
	return strconv.FormatFloat(value, 'f', 4, 64)
}

// DetectionsList returns one line per detected process.
func DetectionsList(report experiment.Report) *List {
	lines := []string{}
	for _, result := range report.Detections() {
		lines = append(lines, fmt.Sprintf("PID %d (%s) - PCC: %s", result.PID, result.Name, FormatCorrelation(result.Correlation)))
	}
	return NewList(lines, "DETECTION: ")
}

// ResponsesList returns one line per applied response.
func ResponsesList(outcomes []response.Outcome) *List {
	lines := []string{}
	for _, outcome := range outcomes {
		status := "ok"
		if !outcome.Succeeded {
			status = "failed"
		}
		lines = append(lines, fmt.Sprintf("%s PID %d (%s): %s", outcome.Action, outcome.PID, outcome.Name, status))
	}
	return NewList(lines, "RESPONSE: ")
}
