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

// Package logger sets up logging of an experiment run.
package logger

import (
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LogFileName is the name of the log file in a run directory.
const LogFileName = "experiment.log"

// CreateExperimentDir creates <baseDir>/<appName>/<runID> and opens log file in it.
func CreateExperimentDir(baseDir, appName, runID string) (string, *os.File, error) {
	directory := path.Join(baseDir, path.Base(appName), runID)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return "", nil, errors.Wrapf(err, "cannot create experiment directory %q", directory)
	}
	logFile, err := os.OpenFile(path.Join(directory, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return "", nil, errors.Wrapf(err, "cannot create log file in %q", directory)
	}
	return directory, logFile, nil
}

// Initialize creates run directory under baseDir and configures logrus to write to its log file and stderr.
// Returned closer closes the log file.
func Initialize(baseDir, appName, runID string) (string, io.Closer, error) {
	directory, logFile, err := CreateExperimentDir(baseDir, appName, runID)
	if err != nil {
		return "", nil, err
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.100"})
	logrus.Infof("Working directory %q", directory)
	logrus.SetOutput(io.MultiWriter(logFile, os.Stderr))

	logrus.Info("Starting experiment ", appName, " with uid ", runID)
	return directory, logFile, nil
}
