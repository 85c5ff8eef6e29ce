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
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/intelsdi-x/kldetect/pkg/detector"
	"github.com/intelsdi-x/kldetect/pkg/injector"
	"github.com/intelsdi-x/kldetect/pkg/keyboard"
	"github.com/intelsdi-x/kldetect/pkg/pattern"
	"github.com/intelsdi-x/kldetect/pkg/process"
	"github.com/intelsdi-x/kldetect/pkg/translator"
	"github.com/intelsdi-x/kldetect/pkg/utils/uuid"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrAlreadyRunning is returned when a run is requested while another one is in progress.
var ErrAlreadyRunning = errors.New("experiment is already running")

// Controller runs detection experiments one at a time.
type Controller struct {
	config     Config
	generator  pattern.Generator
	translator *translator.Translator
	emitter    keyboard.Emitter
	enumerator process.Enumerator
	observer   Observer

	mu          sync.Mutex
	state       State
	lastOutcome Outcome
	cancel      context.CancelFunc
}

// NewController validates config and returns Idle controller.
// Nil algorithm is selected by config.Algorithm, nil observer discards notifications.
func NewController(config Config, algorithm pattern.Algorithm, emitter keyboard.Emitter, enumerator process.Enumerator, observer Observer) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if emitter == nil || enumerator == nil {
		return nil, errors.New("keyboard emitter and process enumerator are required")
	}
	if algorithm == nil {
		var err error
		algorithm, err = pattern.AlgorithmByName(config.Algorithm, nil)
		if err != nil {
			return nil, errors.Wrap(ErrConfiguration, err.Error())
		}
	}
	t, err := translator.New(config.PatternLength, config.KeysMin, config.KeysMax, config.IntervalDuration)
	if err != nil {
		return nil, errors.Wrap(ErrConfiguration, err.Error())
	}
	if observer == nil {
		observer = MultiObserver{}
	}

	return &Controller{
		config:     config,
		generator:  pattern.NewGenerator(algorithm),
		translator: t,
		emitter:    emitter,
		enumerator: enumerator,
		observer:   observer,
	}, nil
}

// Config returns configuration of the controller.
func (c *Controller) Config() Config {
	return c.config
}

// State returns current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastOutcome returns outcome of the last finished run.
func (c *Controller) LastOutcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOutcome
}

// Stop requests cancellation of the current run. The run stops at its next checkpoint.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()

	if cancel == nil {
		c.observer.Status("Experiment is not running.")
		return
	}
	c.observer.Status("Stopping experiment...")
	cancel()
}

// Run executes a single experiment and blocks until it finishes.
// Every run ends with exactly one Completed notification carrying the returned report.
// Cancellation is not an error: it gives Cancelled outcome and nil error.
func (c *Controller) Run(ctx context.Context) (Report, error) {
	c.mu.Lock()
	if c.state == Running {
		c.mu.Unlock()
		c.observer.Status("Experiment is already running.")
		return Report{}, ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.state = Running
	c.cancel = cancel
	c.mu.Unlock()

	report := Report{RunID: uuid.New(), Started: time.Now()}
	defer func() {
		cancel()
		c.mu.Lock()
		c.state = Idle
		c.cancel = nil
		c.lastOutcome = report.Outcome
		c.mu.Unlock()
	}()

	c.observer.Status("Starting experiment...")
	results, err := c.execute(runCtx)
	report.Finished = time.Now()
	report.Results = results
	if report.Results == nil {
		report.Results = []DetectionResult{}
	}

	switch cause := errors.Cause(err); {
	case err == nil:
		report.Outcome = Completed
	case cause == context.Canceled || cause == context.DeadlineExceeded || runCtx.Err() != nil:
		report.Outcome = Cancelled
		c.observer.Status("Experiment cancelled by user.")
		err = nil
	default:
		report.Outcome = Failed
		report.Err = err
		c.observer.Status(fmt.Sprintf("ERROR: An unexpected error occurred: %v", err))
	}
	logrus.Debugf("Run %s finished with outcome %s", report.RunID, report.Outcome)

	c.observer.Completed(report)
	return report, err
}

// checkpoint returns non nil error caused by ctx.Err() when run was cancelled.
func checkpoint(ctx context.Context, phase Phase) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "cancelled before %s", phase)
	}
	return nil
}

// execute runs all phases. Results are nil unless Analyze has finished.
func (c *Controller) execute(ctx context.Context) (results []DetectionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			results, err = nil, errors.Errorf("panic: %v", r)
		}
	}()

	steps := c.config.TotalSteps()
	n := c.config.PatternLength

	if err := checkpoint(ctx, GeneratePatternPhase); err != nil {
		return nil, err
	}
	c.observer.Progress(0, steps)
	c.observer.Status("Step 1/6: Generating input pattern...")
	input, err := c.generator.Generate(n)
	if err != nil {
		return nil, errors.Wrap(err, "cannot generate input pattern")
	}
	c.observer.Status(fmt.Sprintf("Generated pattern using %s (%d samples).", c.generator.Algorithm().Name(), input.Len()))

	if err := checkpoint(ctx, TranslateToSchedulePhase); err != nil {
		return nil, err
	}
	c.observer.Progress(1, steps)
	c.observer.Status("Step 2/6: Translating pattern to injection schedule...")
	schedule, err := c.translator.ToSchedule(input)
	if err != nil {
		return nil, errors.Wrap(err, "cannot translate input pattern")
	}
	c.observer.Status(fmt.Sprintf("Created schedule for %dms total duration.", schedule.TotalDuration().Milliseconds()))

	if err := checkpoint(ctx, DiscoverCandidatesPhase); err != nil {
		return nil, err
	}
	c.observer.Progress(2, steps)
	c.observer.Status("Step 3/6: Identifying candidate processes...")
	infos, err := c.enumerator.List(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrapf(ctxErr, "interrupted %s: %v", DiscoverCandidatesPhase, err)
		}
		c.observer.Status(fmt.Sprintf("ERROR during process query: %v. Aborting experiment.", err))
		return nil, errors.Wrap(err, "cannot discover candidate processes")
	}
	targets := process.NewTargets(c.config.Filter().Candidates(infos))
	if targets.Len() == 0 {
		c.observer.Status("No candidate processes found after filtering. Stopping experiment.")
		return []DetectionResult{}, nil
	}
	c.observer.Status(fmt.Sprintf("Found %d candidate process(es) to monitor.", targets.Len()))

	if err := checkpoint(ctx, InjectAndSamplePhase); err != nil {
		return nil, err
	}
	c.observer.Progress(3, steps)
	c.observer.Status("Step 4/6: Starting keystroke injection and monitoring...")
	inj := injector.New(c.emitter, c.enumerator, injector.Config{
		PatternLength: n,
		ExtraDelay:    c.config.ExtraDelay,
		SettleDelay:   c.config.SettleDelay,
		Filter:        c.config.Filter(),
	}, injectorObserver{observer: c.observer, steps: steps})
	// Targets belong to the injector until Run returns.
	injected, err := inj.Run(ctx, schedule, targets)
	if err != nil {
		return nil, errors.Wrap(err, "injection failed")
	}
	c.observer.Status("Monitoring and injection completed.")

	if err := checkpoint(ctx, AnalyzePhase); err != nil {
		return nil, err
	}
	c.observer.Progress(4+n, steps)
	c.observer.Status("Step 5/6: Analyzing collected data...")
	results = c.analyze(input, injected)
	detections := 0
	for _, result := range results {
		if result.Detected() {
			detections++
		}
	}
	c.observer.Status(fmt.Sprintf("Analysis complete. Found %d potential detection(s).", detections))
	for _, result := range results {
		if result.Detected() {
			c.observer.Status(fmt.Sprintf("DETECTION: PID %d (%s) - PCC: %.4f", result.PID, result.Name, result.Correlation))
			c.observer.Detection(result)
		}
	}

	// Analysis is committed, so Report has no cancellation checkpoint.
	c.observer.Status("Step 6/6: Reporting results...")
	c.observer.Progress(steps, steps)
	return results, nil
}

// analyze correlates input with output pattern of every active process, in ascending pid order.
func (c *Controller) analyze(input pattern.Pattern, injected *injector.Result) []DetectionResult {
	results := []DetectionResult{}
	n := c.config.PatternLength

	for _, pid := range injected.Order() {
		info, ok := injected.Targets.Lookup(pid)
		if !ok {
			logrus.Debugf("Skipping process %d: no process info", pid)
			continue
		}
		series := injected.Series[pid]
		if len(series) != n {
			msg := fmt.Sprintf("Warning: Data length mismatch for PID %d. Expected %d, got %d. Skipping analysis.", pid, n, len(series))
			logrus.Warn(msg)
			c.observer.Status(msg)
			continue
		}

		average := averageBytes(series)
		if average < c.config.MinAverageBytes {
			logrus.Debugf("Skipping process %d (%s): average %.1f bytes per interval below %.1f", pid, info.Name, average, c.config.MinAverageBytes)
			continue
		}

		output, err := c.translator.ToPattern(series)
		if err != nil {
			logrus.Warnf("Skipping process %d (%s): %v", pid, info.Name, err)
			continue
		}
		if !output.InRange() {
			logrus.Warnf("Output pattern of process %d (%s) is outside of [0,1]", pid, info.Name)
		}

		correlation, err := detector.Correlate(input, output)
		if err != nil {
			logrus.Warnf("Cannot correlate process %d (%s): %v", pid, info.Name, err)
		}

		results = append(results, DetectionResult{
			PID:          pid,
			Name:         info.Name,
			Path:         info.Path,
			Correlation:  correlation,
			AverageBytes: average,
			Threshold:    c.config.DetectionThreshold,
			DetectedAt:   time.Now(),
		})
	}
	return results
}

func averageBytes(series []uint64) float64 {
	data := make(stats.Float64Data, len(series))
	for i, b := range series {
		data[i] = float64(b)
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return mean
}
