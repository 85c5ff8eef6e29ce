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

// Package pattern provides normalized activity patterns and the algorithms generating them.
package pattern

import (
	"github.com/pkg/errors"
)

// ErrInvalidArgument is returned when a pattern of non-positive length is requested.
var ErrInvalidArgument = errors.New("invalid argument")

// Pattern is an immutable, ordered sequence of samples.
// Samples are expected to lie in [0,1] but it is not enforced; see InRange.
type Pattern struct {
	samples []float64
}

// New returns a pattern holding a copy of given samples.
func New(samples []float64) Pattern {
	return Pattern{samples: append([]float64{}, samples...)}
}

// Samples returns a copy of pattern samples.
func (p Pattern) Samples() []float64 {
	return append([]float64{}, p.samples...)
}

// Len returns number of samples.
func (p Pattern) Len() int {
	return len(p.samples)
}

// At returns i-th sample.
func (p Pattern) At(i int) float64 {
	return p.samples[i]
}

// InRange reports whether every sample lies in [0,1].
func (p Pattern) InRange() bool {
	for _, s := range p.samples {
		if s < 0 || s > 1 {
			return false
		}
	}
	return true
}
