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

package experiment

import (
	"time"

	"github.com/intelsdi-x/kldetect/pkg/detector"
)

// State of a Controller.
type State int

const (
	// Idle controller accepts a run.
	Idle State = iota
	// Running controller rejects another run.
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	default:
		return "Unknown"
	}
}

// Outcome is the terminal state of a run.
type Outcome int

const (
	// None means no run has finished yet.
	None Outcome = iota
	// Completed run went through all phases.
	Completed
	// Cancelled run was stopped by the user.
	Cancelled
	// Failed run stopped on error.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case None:
		return "None"
	case Completed:
		return "Completed"
	case Cancelled:
		return "Cancelled"
	case Failed:
		return "Error"
	default:
		return "Unknown"
	}
}

// Phase of a running experiment.
type Phase int

// Phases in order of execution.
const (
	GeneratePatternPhase Phase = iota
	TranslateToSchedulePhase
	DiscoverCandidatesPhase
	InjectAndSamplePhase
	AnalyzePhase
	ReportPhase
)

var phaseNames = []string{
	"GeneratePattern",
	"TranslateToSchedule",
	"DiscoverCandidates",
	"InjectAndSample",
	"Analyze",
	"Report",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Unknown"
	}
	return phaseNames[p]
}

// DetectionResult is the analysis of a single process.
// Correlation is NaN when undefined.
type DetectionResult struct {
	PID          int32
	Name         string
	Path         string
	Correlation  float64
	AverageBytes float64
	Threshold    float64
	DetectedAt   time.Time
}

// Detected reports whether correlation is defined and above threshold.
func (r DetectionResult) Detected() bool {
	return detector.ShouldTrigger(r.Correlation, r.Threshold)
}

// Report is emitted once at the end of every run.
type Report struct {
	RunID    string
	Outcome  Outcome
	Results  []DetectionResult
	Err      error
	Started  time.Time
	Finished time.Time
}

// Detections returns results flagged as keyloggers.
func (r Report) Detections() []DetectionResult {
	detections := []DetectionResult{}
	for _, result := range r.Results {
		if result.Detected() {
			detections = append(detections, result)
		}
	}
	return detections
}
