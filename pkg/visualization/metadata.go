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

package visualization

import (
	"fmt"

	"github.com/intelsdi-x/kldetect/pkg/experiment"
)

// RunMetadata describes a finished run.
type RunMetadata struct {
	runID    string
	outcome  experiment.Outcome
	duration string
}

// NewRunMetadata returns metadata of report.
func NewRunMetadata(report experiment.Report) *RunMetadata {
	return &RunMetadata{
		runID:    report.RunID,
		outcome:  report.Outcome,
		duration: report.Finished.Sub(report.Started).String(),
	}
}

// String returns a printable summary of the run.
func (metadata *RunMetadata) String() string {
	return fmt.Sprintf("Experiment id: %s (outcome: %s, duration: %s)", metadata.runID, metadata.outcome, metadata.duration)
}
