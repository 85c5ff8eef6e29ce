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

// Package response acts on processes detected as possible keyloggers.
package response

import (
	"strings"

	"github.com/intelsdi-x/kldetect/pkg/experiment"
	"github.com/intelsdi-x/kldetect/pkg/process"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Action applied to detected processes.
type Action string

const (
	// None only reports detections.
	None Action = "none"
	// Suspend pauses detected processes.
	Suspend Action = "suspend"
	// Terminate kills detected processes.
	Terminate Action = "terminate"
)

// Actions returns all supported actions.
func Actions() []string {
	return []string{string(None), string(Suspend), string(Terminate)}
}

// ParseAction returns Action named by s, case-insensitively.
func ParseAction(s string) (Action, error) {
	switch action := Action(strings.ToLower(strings.TrimSpace(s))); action {
	case None, Suspend, Terminate:
		return action, nil
	}
	return None, errors.Errorf("unknown response action %q (available: %s)", s, strings.Join(Actions(), ", "))
}

// Outcome records the action applied to a single process.
type Outcome struct {
	PID       int32
	Name      string
	Action    Action
	Succeeded bool
}

// Responder applies the configured action to detected processes.
type Responder struct {
	lifecycle process.Lifecycle
	action    Action
}

// NewResponder returns Responder applying action through lifecycle.
func NewResponder(lifecycle process.Lifecycle, action Action) *Responder {
	return &Responder{lifecycle: lifecycle, action: action}
}

// Respond acts on every detected result, in given order. Undetected results are left alone.
// With None action nothing is done and no outcomes are returned.
func (r *Responder) Respond(results []experiment.DetectionResult) []Outcome {
	outcomes := []Outcome{}
	if r.action == None {
		return outcomes
	}

	for _, result := range results {
		if !result.Detected() {
			continue
		}
		var ok bool
		switch r.action {
		case Suspend:
			ok = r.lifecycle.Suspend(result.PID)
		case Terminate:
			ok = r.lifecycle.Terminate(result.PID)
		default:
			logrus.Errorf("Unsupported response action %q", r.action)
			return outcomes
		}

		entry := logrus.WithFields(logrus.Fields{"pid": result.PID, "name": result.Name, "action": r.action})
		if ok {
			entry.Info("Response applied")
		} else {
			entry.Warn("Response failed")
		}
		outcomes = append(outcomes, Outcome{PID: result.PID, Name: result.Name, Action: r.action, Succeeded: ok})
	}
	return outcomes
}
