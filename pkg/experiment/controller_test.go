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
	"math"
	"testing"
	"time"

	"github.com/intelsdi-x/kldetect/pkg/injector"
	keyboardmocks "github.com/intelsdi-x/kldetect/pkg/keyboard/mocks"
	"github.com/intelsdi-x/kldetect/pkg/pattern"
	"github.com/intelsdi-x/kldetect/pkg/process"
	processmocks "github.com/intelsdi-x/kldetect/pkg/process/mocks"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	keyloggerPID = 100
	idlePID      = 200
	noisyPID     = 300
	safePID      = 400
	systemPID    = 500
	quietPID     = 600
)

type ControllerTestSuite struct {
	suite.Suite

	config     Config
	emitter    *keyboardmocks.Emitter
	enumerator *processmocks.Enumerator
	observer   *ChannelObserver
	controller *Controller

	emitted   int
	listCalls int
	onKey     func()
}

func (s *ControllerTestSuite) SetupTest() {
	s.config = DefaultConfig()
	s.config.PatternLength = 6
	s.config.IntervalDuration = 10 * time.Millisecond
	s.config.ExtraDelay = 0
	s.config.SettleDelay = 0
	s.config.KeysMin = 0
	s.config.KeysMax = 10
	s.config.Algorithm = pattern.SineName
	s.config.SafeNames = []string{"Explorer.EXE"}
	s.config.ExcludedPathPrefixes = []string{"/usr/sbin/"}

	s.emitted = 0
	s.listCalls = 0
	s.onKey = func() {}

	s.emitter = new(keyboardmocks.Emitter)
	s.emitter.On("EmitCharacter", mock.Anything).Return(func(rune) error {
		s.emitted++
		s.onKey()
		return nil
	})
	s.emitter.On("ForceFocusChange").Return(nil)

	s.enumerator = new(processmocks.Enumerator)
	s.observer = NewChannelObserver(1000)

	var err error
	s.controller, err = NewController(s.config, nil, s.emitter, s.enumerator, s.observer)
	s.Require().NoError(err)
}

// processes simulates a keylogger writing 100 bytes per key next to other processes.
func (s *ControllerTestSuite) processes(context.Context) []process.Info {
	s.listCalls++
	return []process.Info{
		{PID: 0, Name: "idle task"},
		{PID: keyloggerPID, Name: "keylog", Path: "/home/user/.cache/keylog", WriteBytes: uint64(s.emitted) * 100},
		{PID: idlePID, Name: "sleeper", Path: "/bin/sleep", WriteBytes: 42},
		{PID: noisyPID, Name: "database", Path: "/opt/db/bin/db", WriteBytes: uint64(s.listCalls) * 1000},
		{PID: safePID, Name: "explorer.exe", WriteBytes: uint64(s.emitted) * 100},
		{PID: systemPID, Name: "cron", Path: "/usr/sbin/cron", WriteBytes: uint64(s.emitted) * 100},
		{PID: quietPID, Name: "editor", Path: "/usr/bin/editor", WriteBytes: uint64(s.emitted)},
	}
}

func (s *ControllerTestSuite) events() []Event {
	events := []Event{}
	for {
		select {
		case event := <-s.observer.Events():
			events = append(events, event)
		default:
			return events
		}
	}
}

func count(events []Event, kind EventKind) int {
	n := 0
	for _, event := range events {
		if event.Kind == kind {
			n++
		}
	}
	return n
}

func (s *ControllerTestSuite) TestDetectsKeylogger() {
	s.enumerator.On("List", mock.Anything).Return(s.processes, nil)

	Convey("When experiment runs next to a keylogger", s.T(), func() {
		s.events()
		report, err := s.controller.Run(context.Background())
		So(err, ShouldBeNil)
		So(report.Outcome, ShouldEqual, Completed)
		So(report.RunID, ShouldNotBeEmpty)
		So(report.Finished, ShouldHappenOnOrAfter, report.Started)

		Convey("only active, not excluded processes are analyzed in pid order", func() {
			So(report.Results, ShouldHaveLength, 2)
			So(report.Results[0].PID, ShouldEqual, keyloggerPID)
			So(report.Results[1].PID, ShouldEqual, noisyPID)
		})

		Convey("keylogger write pattern follows the keystrokes", func() {
			keylogger := report.Results[0]
			So(keylogger.Name, ShouldEqual, "keylog")
			So(keylogger.Path, ShouldEqual, "/home/user/.cache/keylog")
			So(keylogger.Correlation, ShouldBeGreaterThan, 0.99)
			So(keylogger.AverageBytes, ShouldEqual, 500)
			So(keylogger.Threshold, ShouldEqual, 0.7)
			So(keylogger.DetectedAt.IsZero(), ShouldBeFalse)
			So(keylogger.Detected(), ShouldBeTrue)
		})

		Convey("constant writer has undefined correlation", func() {
			So(math.IsNaN(report.Results[1].Correlation), ShouldBeTrue)
			So(report.Results[1].Detected(), ShouldBeFalse)
			So(report.Detections(), ShouldHaveLength, 1)
		})

		Convey("observer gets ordered notifications ending with one report", func() {
			events := s.events()
			So(events[0].Kind, ShouldEqual, StatusEvent)
			So(events[0].Message, ShouldEqual, "Starting experiment...")
			So(count(events, CompletedEvent), ShouldEqual, 1)
			So(events[len(events)-1].Kind, ShouldEqual, CompletedEvent)
			So(events[len(events)-1].Report.Outcome, ShouldEqual, Completed)

			So(count(events, DetectionEvent), ShouldEqual, 1)
			So(count(events, ProcessWriteEvent), ShouldEqual, 4*6)

			progress := []int{}
			for _, event := range events {
				if event.Kind == DetectionEvent {
					So(event.Result.PID, ShouldEqual, keyloggerPID)
				}
				if event.Kind == ProgressEvent {
					So(event.Total, ShouldEqual, 11)
					progress = append(progress, event.Current)
				}
			}
			So(progress, ShouldResemble, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
		})

		Convey("controller is idle and re-runnable", func() {
			So(s.controller.State(), ShouldEqual, Idle)
			So(s.controller.LastOutcome(), ShouldEqual, Completed)

			again, err := s.controller.Run(context.Background())
			So(err, ShouldBeNil)
			So(again.Outcome, ShouldEqual, Completed)
			So(again.RunID, ShouldNotEqual, report.RunID)
		})
	})
}

func (s *ControllerTestSuite) TestNoCandidates() {
	s.enumerator.On("List", mock.Anything).Return([]process.Info{
		{PID: 0, Name: "idle task"},
		{PID: safePID, Name: "explorer.exe"},
		{PID: systemPID, Name: "cron", Path: "/USR/SBIN/cron"},
	}, nil)

	Convey("When every process is excluded", s.T(), func() {
		report, err := s.controller.Run(context.Background())

		Convey("run completes with empty results and no keys are sent", func() {
			So(err, ShouldBeNil)
			So(report.Outcome, ShouldEqual, Completed)
			So(report.Results, ShouldBeEmpty)
			So(s.emitted, ShouldEqual, 0)
			So(count(s.events(), CompletedEvent), ShouldEqual, 1)
		})
	})
}

func (s *ControllerTestSuite) TestDiscoveryFailure() {
	s.enumerator.On("List", mock.Anything).Return(nil, errors.Wrap(process.ErrQuery, "access denied"))

	Convey("When candidate discovery fails", s.T(), func() {
		report, err := s.controller.Run(context.Background())

		Convey("run ends with error before any injection", func() {
			So(errors.Cause(err), ShouldEqual, process.ErrQuery)
			So(report.Outcome, ShouldEqual, Failed)
			So(errors.Cause(report.Err), ShouldEqual, process.ErrQuery)
			So(report.Results, ShouldBeEmpty)
			So(s.emitted, ShouldEqual, 0)
			So(s.controller.State(), ShouldEqual, Idle)
			So(s.controller.LastOutcome(), ShouldEqual, Failed)

			events := s.events()
			So(count(events, CompletedEvent), ShouldEqual, 1)
			So(count(events, DetectionEvent), ShouldEqual, 0)
		})
	})
}

func (s *ControllerTestSuite) TestStopDuringInjection() {
	s.enumerator.On("List", mock.Anything).Return(s.processes, nil)
	s.onKey = func() { s.controller.Stop() }

	Convey("When experiment is stopped during injection", s.T(), func() {
		report, err := s.controller.Run(context.Background())

		Convey("run is cancelled with empty results and one report", func() {
			So(err, ShouldBeNil)
			So(report.Outcome, ShouldEqual, Cancelled)
			So(report.Results, ShouldBeEmpty)
			So(s.emitted, ShouldEqual, 1)
			So(s.controller.LastOutcome(), ShouldEqual, Cancelled)

			events := s.events()
			So(count(events, CompletedEvent), ShouldEqual, 1)
			So(count(events, DetectionEvent), ShouldEqual, 0)
			So(events[len(events)-1].Report.Outcome, ShouldEqual, Cancelled)
		})
	})
}

func (s *ControllerTestSuite) TestStopDuringDiscovery() {
	s.enumerator.On("List", mock.Anything).Return(
		func(context.Context) []process.Info {
			s.controller.Stop()
			return nil
		},
		func(ctx context.Context) error {
			if ctx.Err() != nil {
				return errors.Wrapf(process.ErrQuery, "listing interrupted: %v", ctx.Err())
			}
			return nil
		})

	Convey("When experiment is stopped while processes are enumerated", s.T(), func() {
		report, err := s.controller.Run(context.Background())

		Convey("run is cancelled, not failed", func() {
			So(err, ShouldBeNil)
			So(report.Outcome, ShouldEqual, Cancelled)
			So(report.Err, ShouldBeNil)
			So(report.Results, ShouldBeEmpty)
			So(s.emitted, ShouldEqual, 0)
			So(s.controller.LastOutcome(), ShouldEqual, Cancelled)

			events := s.events()
			for _, event := range events {
				So(event.Message, ShouldNotStartWith, "ERROR")
			}
			So(count(events, CompletedEvent), ShouldEqual, 1)
			So(events[len(events)-1].Report.Outcome, ShouldEqual, Cancelled)
		})
	})
}

func (s *ControllerTestSuite) TestCancelledContext() {
	s.enumerator.On("List", mock.Anything).Return(s.processes, nil)

	Convey("When context is cancelled before run", s.T(), func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		report, err := s.controller.Run(ctx)

		So(err, ShouldBeNil)
		So(report.Outcome, ShouldEqual, Cancelled)
		So(s.listCalls, ShouldEqual, 0)
	})
}

func (s *ControllerTestSuite) TestRejectsConcurrentRun() {
	s.enumerator.On("List", mock.Anything).Return(s.processes, nil)
	var nested error
	var state State
	s.onKey = func() {
		if s.emitted == 1 {
			state = s.controller.State()
			_, nested = s.controller.Run(context.Background())
		}
	}

	Convey("When run is requested while running", s.T(), func() {
		report, err := s.controller.Run(context.Background())

		Convey("the request is rejected and the first run continues", func() {
			So(state, ShouldEqual, Running)
			So(nested, ShouldEqual, ErrAlreadyRunning)
			So(err, ShouldBeNil)
			So(report.Outcome, ShouldEqual, Completed)
			So(count(s.events(), CompletedEvent), ShouldEqual, 1)
		})
	})
}

func (s *ControllerTestSuite) TestStopWhenIdle() {
	Convey("When idle controller is stopped", s.T(), func() {
		s.controller.Stop()

		events := s.events()
		So(events, ShouldHaveLength, 1)
		So(events[0].Message, ShouldEqual, "Experiment is not running.")
		So(s.controller.State(), ShouldEqual, Idle)
		So(s.controller.LastOutcome(), ShouldEqual, None)
	})
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func TestNewController(t *testing.T) {
	Convey("When creating controller", t, func() {
		emitter := new(keyboardmocks.Emitter)
		enumerator := new(processmocks.Enumerator)

		Convey("invalid configuration is rejected", func() {
			config := DefaultConfig()
			config.KeysMax = config.KeysMin
			_, err := NewController(config, nil, emitter, enumerator, nil)
			So(errors.Cause(err), ShouldEqual, ErrConfiguration)
		})

		Convey("collaborators are required", func() {
			_, err := NewController(DefaultConfig(), nil, nil, enumerator, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("algorithm is selected from configuration", func() {
			config := DefaultConfig()
			config.Algorithm = pattern.ShuffledName
			controller, err := NewController(config, nil, emitter, enumerator, nil)
			So(err, ShouldBeNil)
			So(controller.generator.Algorithm().Name(), ShouldEqual, pattern.ShuffledName)
			So(controller.State(), ShouldEqual, Idle)
			So(controller.Config(), ShouldResemble, config)
		})
	})
}

func TestAnalyze(t *testing.T) {
	Convey("When analyzing injected series", t, func() {
		config := DefaultConfig()
		config.PatternLength = 4
		config.MinAverageBytes = 10
		observer := NewChannelObserver(10)
		controller, err := NewController(config, pattern.SineWaveAlgorithm{}, new(keyboardmocks.Emitter), new(processmocks.Enumerator), observer)
		So(err, ShouldBeNil)

		input := pattern.New([]float64{0, 1, 0, 1})
		targets := process.NewTargets([]process.Info{
			{PID: 1, Name: "short"},
			{PID: 3, Name: "quiet"},
			{PID: 4, Name: "follower"},
		})
		results := controller.analyze(input, &injector.Result{
			Series: map[int32][]uint64{
				1: {10, 20, 30},
				2: {0, 50, 0, 50},
				3: {1, 2, 1, 2},
				4: {0, 50, 0, 50},
			},
			Targets: targets,
		})

		Convey("series of wrong length, unknown or quiet processes are skipped", func() {
			So(results, ShouldHaveLength, 1)
			So(results[0].PID, ShouldEqual, 4)
			So(results[0].AverageBytes, ShouldEqual, 25)
			So(results[0].Correlation, ShouldAlmostEqual, 1, 1e-9)
		})

		Convey("length mismatch is reported as warning", func() {
			event := <-observer.Events()
			So(event.Message, ShouldStartWith, "Warning: Data length mismatch for PID 1.")
		})
	})
}
