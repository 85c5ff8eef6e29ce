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

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/intelsdi-x/kldetect/pkg/conf"
	"github.com/intelsdi-x/kldetect/pkg/experiment"
	"github.com/intelsdi-x/kldetect/pkg/experiment/logger"
	"github.com/intelsdi-x/kldetect/pkg/keyboard"
	"github.com/intelsdi-x/kldetect/pkg/process"
	"github.com/intelsdi-x/kldetect/pkg/response"
	"github.com/intelsdi-x/kldetect/pkg/utils/errutil"
	"github.com/intelsdi-x/kldetect/pkg/utils/uuid"
	"github.com/intelsdi-x/kldetect/pkg/visualization"
	"github.com/sirupsen/logrus"
)

var (
	processSourceFlag = conf.NewStringFlag(
		"process_source",
		"Source of process write counters: "+process.SystemSource+", "+process.ProcfsSource,
		process.SystemSource,
	)
	responseFlag = conf.NewStringFlag(
		"response",
		"Action applied to detected processes: "+strings.Join(response.Actions(), ", "),
		string(response.None),
	)
	logDirFlag = conf.NewStringFlag("log_dir", "Directory where experiment logs are stored.", os.TempDir())
)

// Check README.md for details of this experiment.
func main() {
	os.Exit(run())
}

func run() int {
	conf.SetAppName("keylogger-detection")
	conf.SetHelp(`Keylogger detection injects synthetic keystrokes following a random pattern and correlates it
with bytes written by running processes. Processes whose writes follow the pattern are reported as possible keyloggers.`)
	experiment.Configure()

	logDir, logFile, err := logger.Initialize(logDirFlag.Value(), conf.AppName(), uuid.New())
	errutil.CheckWithContext(err, "Cannot initialize experiment logs")
	defer logFile.Close()
	logrus.Infof("Logs are stored in %s", logDir)

	action, err := response.ParseAction(responseFlag.Value())
	errutil.Check(err)
	enumerator, err := process.EnumeratorByName(processSourceFlag.Value())
	errutil.Check(err)
	emitter, err := keyboard.NewSystemEmitter()
	errutil.CheckWithContext(err, "Cannot create keyboard emitter")

	controller, err := experiment.NewController(experiment.ConfigFromFlags(), nil, emitter, enumerator, experiment.LogObserver{})
	errutil.Check(err)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range signals {
			controller.Stop()
		}
	}()

	report, err := controller.Run(context.Background())
	signal.Stop(signals)

	visualization.PrintRunMetadata(os.Stdout, visualization.NewRunMetadata(report))
	switch report.Outcome {
	case experiment.Cancelled:
		return experiment.ExCancelled
	case experiment.Failed:
		logrus.Errorf("Experiment failed: %v", err)
		return experiment.ExError
	}

	visualization.DrawTable(os.Stdout, visualization.ResultsTable(report.Results))
	visualization.PrintList(os.Stdout, visualization.DetectionsList(report))

	outcomes := response.NewResponder(process.NewSystemLifecycle(), action).Respond(report.Results)
	visualization.PrintList(os.Stdout, visualization.ResponsesList(outcomes))
	return experiment.ExOK
}
