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

package response

import (
	"math"
	"testing"

	"github.com/intelsdi-x/kldetect/pkg/experiment"
	"github.com/intelsdi-x/kldetect/pkg/process/mocks"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseAction(t *testing.T) {
	Convey("When parsing response action", t, func() {
		action, err := ParseAction(" Terminate ")
		So(err, ShouldBeNil)
		So(action, ShouldEqual, Terminate)

		_, err = ParseAction("reboot")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "none, suspend, terminate")
	})
}

func TestResponder(t *testing.T) {
	results := []experiment.DetectionResult{
		{PID: 10, Name: "keylog", Correlation: 0.95, Threshold: 0.7},
		{PID: 20, Name: "editor", Correlation: 0.2, Threshold: 0.7},
		{PID: 30, Name: "constant", Correlation: math.NaN(), Threshold: 0.7},
		{PID: 40, Name: "zombie", Correlation: 0.8, Threshold: 0.7},
	}

	Convey("When responding to detections", t, func() {
		lifecycle := new(mocks.Lifecycle)

		Convey("suspend is applied only to detected processes", func() {
			lifecycle.On("Suspend", int32(10)).Return(true).Once()
			lifecycle.On("Suspend", int32(40)).Return(false).Once()

			outcomes := NewResponder(lifecycle, Suspend).Respond(results)
			So(outcomes, ShouldResemble, []Outcome{
				{PID: 10, Name: "keylog", Action: Suspend, Succeeded: true},
				{PID: 40, Name: "zombie", Action: Suspend, Succeeded: false},
			})
			lifecycle.AssertExpectations(t)
			lifecycle.AssertNotCalled(t, "Terminate", int32(10))
		})

		Convey("terminate uses terminate", func() {
			lifecycle.On("Terminate", int32(10)).Return(true).Once()
			lifecycle.On("Terminate", int32(40)).Return(true).Once()

			outcomes := NewResponder(lifecycle, Terminate).Respond(results)
			So(outcomes, ShouldHaveLength, 2)
			lifecycle.AssertExpectations(t)
		})

		Convey("none leaves processes alone", func() {
			So(NewResponder(lifecycle, None).Respond(results), ShouldBeEmpty)
			lifecycle.AssertNotCalled(t, "Suspend", int32(10))
		})
	})
}
