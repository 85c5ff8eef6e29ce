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
	"strings"

	"github.com/intelsdi-x/kldetect/pkg/conf"
	"github.com/intelsdi-x/kldetect/pkg/pattern"
)

var defaults = DefaultConfig()

var (
	// PatternLengthFlag is the number of intervals.
	PatternLengthFlag = conf.NewIntFlag("pattern_length", "Number of intervals (pattern samples) in an experiment.", defaults.PatternLength)
	// IntervalDurationFlag is the time keys of one interval are spread over.
	IntervalDurationFlag = conf.NewDurationFlag("interval_duration", "Duration of keystroke injection in a single interval.", defaults.IntervalDuration)
	// IntervalExtraDelayFlag is added to every interval.
	IntervalExtraDelayFlag = conf.NewDurationFlag("interval_extra_delay", "Extra time added to every interval.", defaults.ExtraDelay)
	// IntervalSettleDelayFlag is waited after every interval.
	IntervalSettleDelayFlag = conf.NewDurationFlag("interval_settle_delay", "Time to wait after every interval for buffered writes to be counted.", defaults.SettleDelay)
	// KeysMinFlag is the number of keys emitted for pattern sample 0.
	KeysMinFlag = conf.NewIntFlag("keys_min", "Minimum number of keys emitted in an interval.", defaults.KeysMin)
	// KeysMaxFlag is the number of keys emitted for pattern sample 1.
	KeysMaxFlag = conf.NewIntFlag("keys_max", "Maximum number of keys emitted in an interval.", defaults.KeysMax)
	// DetectionThresholdFlag is the correlation above which a process is flagged.
	DetectionThresholdFlag = conf.NewFloatFlag("detection_threshold", "Correlation above which a process is reported as a keylogger.", defaults.DetectionThreshold)
	// MinAverageBytesFlag is the minimum average write per interval of an analyzed process.
	MinAverageBytesFlag = conf.NewFloatFlag("min_average_bytes", "Processes writing less bytes per interval on average are not analyzed.", defaults.MinAverageBytes)
	// PatternAlgorithmFlag selects pattern algorithm.
	PatternAlgorithmFlag = conf.NewStringFlag("pattern_algorithm", "Input pattern algorithm: "+strings.Join(pattern.Algorithms(), ", ")+".", defaults.Algorithm)
	// SafeProcessFlag lists process names which are never monitored.
	SafeProcessFlag = conf.NewSliceFlag("safe_process", "Comma-separated names of processes which are never monitored (case-insensitive).")
	// ExcludedPathPrefixFlag lists executable path prefixes which are never monitored.
	ExcludedPathPrefixFlag = conf.NewSliceFlag("excluded_path_prefix", "Comma-separated executable path prefixes which are never monitored (case-insensitive).", defaults.ExcludedPathPrefixes...)
)

// ConfigFromFlags returns Config from current flag values.
func ConfigFromFlags() Config {
	return Config{
		PatternLength:        PatternLengthFlag.Value(),
		IntervalDuration:     IntervalDurationFlag.Value(),
		ExtraDelay:           IntervalExtraDelayFlag.Value(),
		SettleDelay:          IntervalSettleDelayFlag.Value(),
		KeysMin:              KeysMinFlag.Value(),
		KeysMax:              KeysMaxFlag.Value(),
		DetectionThreshold:   DetectionThresholdFlag.Value(),
		MinAverageBytes:      MinAverageBytesFlag.Value(),
		Algorithm:            PatternAlgorithmFlag.Value(),
		SafeNames:            SafeProcessFlag.Value(),
		ExcludedPathPrefixes: ExcludedPathPrefixFlag.Value(),
	}
}
