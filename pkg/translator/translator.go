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

// Package translator maps patterns to key schedules and observed write bytes back to patterns.
package translator

import (
	"math"
	"time"

	"github.com/intelsdi-x/kldetect/pkg/pattern"
	"github.com/pkg/errors"
)

// Schedule holds the number of keys to emit in each interval.
type Schedule struct {
	KeysPerInterval  []int
	IntervalDuration time.Duration
}

// Len returns number of intervals.
func (s Schedule) Len() int {
	return len(s.KeysPerInterval)
}

// TotalDuration returns Len() * IntervalDuration.
func (s Schedule) TotalDuration() time.Duration {
	return time.Duration(s.Len()) * s.IntervalDuration
}

// TotalKeys returns number of keys in all intervals.
func (s Schedule) TotalKeys() int {
	total := 0
	for _, keys := range s.KeysPerInterval {
		total += keys
	}
	return total
}

// Translator converts between normalized patterns and physical units.
type Translator struct {
	length   int
	keysMin  int
	keysMax  int
	interval time.Duration
}

// New returns Translator for patterns of given length and keys range.
func New(length, keysMin, keysMax int, interval time.Duration) (*Translator, error) {
	if length <= 0 {
		return nil, errors.Errorf("pattern length must be positive, got %d", length)
	}
	if keysMax <= keysMin {
		return nil, errors.Errorf("maximum keys per interval (%d) must be greater than minimum (%d)", keysMax, keysMin)
	}
	if interval <= 0 {
		return nil, errors.Errorf("interval duration must be positive, got %s", interval)
	}
	return &Translator{length: length, keysMin: keysMin, keysMax: keysMax, interval: interval}, nil
}

// ToSchedule denormalizes every sample to round(p*(max-min)+min) keys.
// Halves are rounded to even.
func (t *Translator) ToSchedule(p pattern.Pattern) (Schedule, error) {
	if p.Len() != t.length {
		return Schedule{}, errors.Errorf("pattern length %d does not match configured length %d", p.Len(), t.length)
	}

	keys := make([]int, p.Len())
	span := float64(t.keysMax - t.keysMin)
	for i := range keys {
		keys[i] = int(math.RoundToEven(p.At(i)*span + float64(t.keysMin)))
		if keys[i] < 0 {
			keys[i] = 0
		}
	}
	return Schedule{KeysPerInterval: keys, IntervalDuration: t.interval}, nil
}

// ToPattern normalizes byte deltas to (b-min)/(max-min).
// Results are not clamped, so bytes outside of the keys range give samples outside of [0,1].
func (t *Translator) ToPattern(bytes []uint64) (pattern.Pattern, error) {
	if len(bytes) != t.length {
		return pattern.Pattern{}, errors.Errorf("byte series length %d does not match configured length %d", len(bytes), t.length)
	}

	samples := make([]float64, len(bytes))
	span := float64(t.keysMax - t.keysMin)
	for i, b := range bytes {
		value := float64(b)
		if span == 0 {
			if value >= float64(t.keysMin) {
				samples[i] = 1
			}
			continue
		}
		samples[i] = (value - float64(t.keysMin)) / span
	}
	return pattern.New(samples), nil
}
