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
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Algorithm produces n samples in [0,1].
type Algorithm interface {
	Name() string
	Samples(n int) ([]float64, error)
}

const (
	// RandomName selects RandomAlgorithm.
	RandomName = "random"
	// ShuffledName selects ShuffledAlgorithm.
	ShuffledName = "shuffled"
	// SineName selects SineWaveAlgorithm.
	SineName = "sine"
)

func newSource(r *rand.Rand) *rand.Rand {
	if r != nil {
		return r
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func checkLength(n int) error {
	if n <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "pattern length must be positive, got %d", n)
	}
	return nil
}

// RandomAlgorithm draws every sample independently and uniformly from [0,1).
type RandomAlgorithm struct {
	rand *rand.Rand
}

// NewRandomAlgorithm returns RandomAlgorithm using r, or a time seeded source when r is nil.
func NewRandomAlgorithm(r *rand.Rand) *RandomAlgorithm {
	return &RandomAlgorithm{rand: newSource(r)}
}

// Name implements Algorithm.
func (a *RandomAlgorithm) Name() string { return RandomName }

// Samples implements Algorithm.
func (a *RandomAlgorithm) Samples(n int) ([]float64, error) {
	if err := checkLength(n); err != nil {
		return nil, err
	}
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = a.rand.Float64()
	}
	return samples, nil
}

// ShuffledAlgorithm returns n evenly spaced values from 0 to 1 in random order.
type ShuffledAlgorithm struct {
	rand *rand.Rand
}

// NewShuffledAlgorithm returns ShuffledAlgorithm using r, or a time seeded source when r is nil.
func NewShuffledAlgorithm(r *rand.Rand) *ShuffledAlgorithm {
	return &ShuffledAlgorithm{rand: newSource(r)}
}

// Name implements Algorithm.
func (a *ShuffledAlgorithm) Name() string { return ShuffledName }

// Samples implements Algorithm.
// For n == 1 the only value is 0.5.
func (a *ShuffledAlgorithm) Samples(n int) ([]float64, error) {
	if err := checkLength(n); err != nil {
		return nil, err
	}
	if n == 1 {
		return []float64{0.5}, nil
	}
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = float64(i) / float64(n-1)
	}
	a.rand.Shuffle(n, func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})
	return samples, nil
}

// SineWaveAlgorithm returns one full sine period scaled to [0,1].
type SineWaveAlgorithm struct{}

// Name implements Algorithm.
func (SineWaveAlgorithm) Name() string { return SineName }

// Samples implements Algorithm.
// Sample i is (sin(2*pi*i/(n-1)) + 1) / 2; for n == 1 it is 0.5.
func (SineWaveAlgorithm) Samples(n int) ([]float64, error) {
	if err := checkLength(n); err != nil {
		return nil, err
	}
	if n == 1 {
		return []float64{0.5}, nil
	}
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = (math.Sin(2*math.Pi*float64(i)/float64(n-1)) + 1) / 2
	}
	return samples, nil
}

var constructors = map[string]func(r *rand.Rand) Algorithm{
	RandomName:   func(r *rand.Rand) Algorithm { return NewRandomAlgorithm(r) },
	ShuffledName: func(r *rand.Rand) Algorithm { return NewShuffledAlgorithm(r) },
	SineName:     func(*rand.Rand) Algorithm { return SineWaveAlgorithm{} },
}

// AlgorithmByName returns algorithm registered under name.
// r seeds random algorithms and may be nil.
func AlgorithmByName(name string, r *rand.Rand) (Algorithm, error) {
	constructor, ok := constructors[name]
	if !ok {
		return nil, errors.Errorf("unknown pattern algorithm %q (available: %v)", name, Algorithms())
	}
	return constructor(r), nil
}

// Algorithms returns sorted names of available algorithms.
func Algorithms() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
