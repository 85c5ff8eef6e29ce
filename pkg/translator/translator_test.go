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

package translator

import (
	"testing"
	"time"

	"github.com/intelsdi-x/kldetect/pkg/pattern"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTranslatorConstruction(t *testing.T) {
	Convey("When creating translator", t, func() {
		Convey("maximum keys must be greater than minimum", func() {
			_, err := New(5, 10, 10, time.Second)
			So(err, ShouldNotBeNil)
			_, err = New(5, 10, 5, time.Second)
			So(err, ShouldNotBeNil)
		})

		Convey("length must be positive", func() {
			_, err := New(0, 0, 10, time.Second)
			So(err, ShouldNotBeNil)
		})

		Convey("interval must be positive", func() {
			_, err := New(5, 0, 10, 0)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestTranslator(t *testing.T) {
	Convey("With translator for 5 intervals and 0..10 keys", t, func() {
		translator, err := New(5, 0, 10, 2*time.Second)
		So(err, ShouldBeNil)

		Convey("sine pattern gives 5, 10, 5, 0, 5 keys", func() {
			p, err := pattern.NewGenerator(pattern.SineWaveAlgorithm{}).Generate(5)
			So(err, ShouldBeNil)

			schedule, err := translator.ToSchedule(p)
			So(err, ShouldBeNil)
			So(schedule.KeysPerInterval, ShouldResemble, []int{5, 10, 5, 0, 5})
			So(schedule.Len(), ShouldEqual, 5)
			So(schedule.TotalDuration(), ShouldEqual, 10*time.Second)
			So(schedule.TotalKeys(), ShouldEqual, 25)
		})

		Convey("halves are rounded to even", func() {
			schedule, err := translator.ToSchedule(pattern.New([]float64{0.25, 0.75, 0.125, 0.375, 1}))
			So(err, ShouldBeNil)
			So(schedule.KeysPerInterval, ShouldResemble, []int{2, 8, 1, 4, 10})
		})

		Convey("pattern of other length is rejected", func() {
			_, err := translator.ToSchedule(pattern.New([]float64{0.5}))
			So(err, ShouldNotBeNil)
		})

		Convey("bytes are normalized without clamping", func() {
			p, err := translator.ToPattern([]uint64{0, 5, 10, 20, 3})
			So(err, ShouldBeNil)
			So(p.Samples(), ShouldResemble, []float64{0, 0.5, 1, 2, 0.3})
			So(p.InRange(), ShouldBeFalse)
		})

		Convey("byte series of other length is rejected", func() {
			_, err := translator.ToPattern([]uint64{1, 2})
			So(err, ShouldNotBeNil)
		})

		Convey("denormalized keys fed back give the input pattern", func() {
			input := pattern.New([]float64{0, 0.3, 0.7, 1, 0.5})
			schedule, err := translator.ToSchedule(input)
			So(err, ShouldBeNil)

			bytes := make([]uint64, schedule.Len())
			for i, keys := range schedule.KeysPerInterval {
				bytes[i] = uint64(keys)
			}
			output, err := translator.ToPattern(bytes)
			So(err, ShouldBeNil)
			for i := 0; i < input.Len(); i++ {
				So(output.At(i), ShouldAlmostEqual, input.At(i), 0.05)
			}
		})
	})

	Convey("With non zero minimum keys", t, func() {
		translator, err := New(2, 20, 120, time.Second)
		So(err, ShouldBeNil)

		Convey("bytes below minimum give negative samples", func() {
			p, err := translator.ToPattern([]uint64{0, 70})
			So(err, ShouldBeNil)
			So(p.At(0), ShouldAlmostEqual, -0.2, 1e-12)
			So(p.At(1), ShouldAlmostEqual, 0.5, 1e-12)
		})
	})

	Convey("With degenerate keys range", t, func() {
		translator := &Translator{length: 3, keysMin: 10, keysMax: 10, interval: time.Second}

		Convey("bytes at or above minimum give 1, below give 0", func() {
			p, err := translator.ToPattern([]uint64{9, 10, 11})
			So(err, ShouldBeNil)
			So(p.Samples(), ShouldResemble, []float64{0, 1, 1})
		})
	})
}
