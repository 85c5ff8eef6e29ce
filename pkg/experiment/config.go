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
	"math"
	"runtime"
	"time"

	"github.com/intelsdi-x/kldetect/pkg/pattern"
	"github.com/intelsdi-x/kldetect/pkg/process"
	"github.com/intelsdi-x/kldetect/pkg/utils/err_collection"
	"github.com/pkg/errors"
)

// ErrConfiguration is the cause of every invalid configuration error.
var ErrConfiguration = errors.New("invalid configuration")

// Config holds all run parameters of a detection experiment.
type Config struct {
	// PatternLength is the number of intervals (N).
	PatternLength int
	// IntervalDuration is the time keys of a single interval are spread over.
	IntervalDuration time.Duration
	// ExtraDelay is added to every interval.
	ExtraDelay time.Duration
	// SettleDelay is waited after every interval before the next one starts.
	SettleDelay time.Duration
	// KeysMin and KeysMax bound the number of keys emitted in an interval.
	KeysMin int
	KeysMax int
	// DetectionThreshold is exclusive lower bound of correlation flagging a process.
	DetectionThreshold float64
	// MinAverageBytes is the average write per interval below which a process is not analyzed.
	MinAverageBytes float64
	// Algorithm is the pattern algorithm name.
	Algorithm string
	// SafeNames are process names never monitored (case-insensitive).
	SafeNames []string
	// ExcludedPathPrefixes are executable path prefixes never monitored (case-insensitive).
	ExcludedPathPrefixes []string
}

// DefaultExcludedPathPrefixes returns system directories excluded on current platform.
func DefaultExcludedPathPrefixes() []string {
	if runtime.GOOS == "windows" {
		return []string{`C:\Windows\`}
	}
	return []string{"/usr/lib/systemd/", "/usr/sbin/"}
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() Config {
	return Config{
		PatternLength:        10,
		IntervalDuration:     5 * time.Second,
		ExtraDelay:           time.Second,
		SettleDelay:          time.Second,
		KeysMin:              0,
		KeysMax:              50,
		DetectionThreshold:   0.7,
		MinAverageBytes:      200,
		Algorithm:            pattern.RandomName,
		ExcludedPathPrefixes: DefaultExcludedPathPrefixes(),
	}
}

// Validate returns error describing every violated rule, caused by ErrConfiguration.
func (c Config) Validate() error {
	var errs errcollection.ErrorCollection
	if c.PatternLength <= 0 {
		errs.Addf("pattern length must be positive, got %d", c.PatternLength)
	}
	if c.IntervalDuration <= 0 {
		errs.Addf("interval duration must be positive, got %s", c.IntervalDuration)
	}
	if c.ExtraDelay < 0 {
		errs.Addf("extra delay must not be negative, got %s", c.ExtraDelay)
	}
	if c.SettleDelay < 0 {
		errs.Addf("settle delay must not be negative, got %s", c.SettleDelay)
	}
	if c.KeysMin < 0 {
		errs.Addf("minimum keys per interval must not be negative, got %d", c.KeysMin)
	}
	if c.KeysMax <= c.KeysMin {
		errs.Addf("maximum keys per interval (%d) must be greater than minimum (%d)", c.KeysMax, c.KeysMin)
	}
	if math.IsNaN(c.DetectionThreshold) || c.DetectionThreshold < -1 || c.DetectionThreshold > 1 {
		errs.Addf("detection threshold must be in [-1,1], got %v", c.DetectionThreshold)
	}
	if math.IsNaN(c.MinAverageBytes) || c.MinAverageBytes < 0 {
		errs.Addf("minimum average bytes must not be negative, got %v", c.MinAverageBytes)
	}
	if _, err := pattern.AlgorithmByName(c.Algorithm, nil); err != nil {
		errs.Add(err)
	}

	if err := errs.GetErrIfAny(); err != nil {
		return errors.Wrap(ErrConfiguration, err.Error())
	}
	return nil
}

// Filter returns candidate filter built from safe names and excluded prefixes.
func (c Config) Filter() process.Filter {
	return process.Filter{
		SafeNames:        append([]string{}, c.SafeNames...),
		ExcludedPrefixes: append([]string{}, c.ExcludedPathPrefixes...),
	}
}

// TotalSteps returns number of progress steps of a run: N intervals and 5 phase boundaries.
func (c Config) TotalSteps() int {
	return c.PatternLength + 5
}
