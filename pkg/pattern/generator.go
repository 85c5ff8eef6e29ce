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

package pattern

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Generator produces patterns of requested length with the configured algorithm.
type Generator struct {
	algorithm Algorithm
}

// NewGenerator returns Generator using given algorithm.
func NewGenerator(algorithm Algorithm) Generator {
	return Generator{algorithm: algorithm}
}

// Algorithm returns configured algorithm.
func (g Generator) Algorithm() Algorithm {
	return g.algorithm
}

// Generate returns pattern of length n.
func (g Generator) Generate(n int) (Pattern, error) {
	if err := checkLength(n); err != nil {
		return Pattern{}, err
	}

	samples, err := g.algorithm.Samples(n)
	if err != nil {
		return Pattern{}, errors.Wrapf(err, "%s algorithm failed", g.algorithm.Name())
	}
	if len(samples) != n {
		return Pattern{}, errors.Errorf("%s algorithm returned %d samples, expected %d", g.algorithm.Name(), len(samples), n)
	}

	for i, s := range samples {
		logrus.Debugf("Pattern sample %d: %.4f", i, s)
	}
	return New(samples), nil
}
