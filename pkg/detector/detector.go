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

// Package detector correlates injected and observed patterns.
package detector

import (
	"math"

	"github.com/intelsdi-x/kldetect/pkg/pattern"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Epsilon is the smallest sum of squared deviations for which a series is not considered constant.
const Epsilon = 1e-10

// ErrInvalidArgument is returned for patterns of different or too short length.
var ErrInvalidArgument = errors.New("invalid argument")

// Correlate returns the Pearson correlation coefficient of p and q clamped to [-1,1].
// When either pattern is constant the correlation is undefined and NaN is returned.
func Correlate(p, q pattern.Pattern) (float64, error) {
	if p.Len() != q.Len() {
		return math.NaN(), errors.Wrapf(ErrInvalidArgument, "patterns have different lengths: %d and %d", p.Len(), q.Len())
	}
	if p.Len() < 2 {
		return math.NaN(), errors.Wrapf(ErrInvalidArgument, "at least 2 samples are required, got %d", p.Len())
	}

	x, y := p.Samples(), q.Samples()
	meanX, meanY := stat.Mean(x, nil), stat.Mean(y, nil)

	var sumXX, sumYY, sumXY float64
	for i := range x {
		dx, dy := x[i]-meanX, y[i]-meanY
		sumXX += dx * dx
		sumYY += dy * dy
		sumXY += dx * dy
	}
	if sumXX < Epsilon || sumYY < Epsilon {
		return math.NaN(), nil
	}

	return math.Max(-1, math.Min(1, sumXY/(math.Sqrt(sumXX)*math.Sqrt(sumYY)))), nil
}

// IsDefined reports whether value is a defined correlation.
func IsDefined(value float64) bool {
	return !math.IsNaN(value)
}

// ShouldTrigger is true only for defined correlation strictly greater than threshold.
func ShouldTrigger(value, threshold float64) bool {
	return IsDefined(value) && value > threshold
}
