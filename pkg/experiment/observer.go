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
	"github.com/intelsdi-x/kldetect/pkg/process"
	"github.com/sirupsen/logrus"
)

// Observer receives notifications of a run in order: status and progress updates,
// process writes, detections and finally exactly one completion report.
type Observer interface {
	Status(message string)
	Progress(current, total int)
	ProcessWrite(info process.Info, delta uint64)
	Detection(result DetectionResult)
	Completed(report Report)
}

// EventKind tells which Observer method produced an Event.
type EventKind int

// Event kinds.
const (
	StatusEvent EventKind = iota
	ProgressEvent
	ProcessWriteEvent
	DetectionEvent
	CompletedEvent
)

// Event is a notification passed through ChannelObserver.
// Only fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	Message string
	Current int
	Total   int
	Process process.Info
	Delta   uint64
	Result  DetectionResult
	Report  Report
}

// ChannelObserver passes notifications as events over a buffered channel.
// Sends block when the buffer is full, so the consumer has to keep reading.
type ChannelObserver struct {
	events chan Event
}

// NewChannelObserver returns ChannelObserver with given buffer size.
func NewChannelObserver(buffer int) *ChannelObserver {
	return &ChannelObserver{events: make(chan Event, buffer)}
}

// Events returns channel of notifications. It is never closed; CompletedEvent ends a run.
func (c *ChannelObserver) Events() <-chan Event {
	return c.events
}

// Status implements Observer.
func (c *ChannelObserver) Status(message string) {
	c.events <- Event{Kind: StatusEvent, Message: message}
}

// Progress implements Observer.
func (c *ChannelObserver) Progress(current, total int) {
	c.events <- Event{Kind: ProgressEvent, Current: current, Total: total}
}

// ProcessWrite implements Observer.
func (c *ChannelObserver) ProcessWrite(info process.Info, delta uint64) {
	c.events <- Event{Kind: ProcessWriteEvent, Process: info, Delta: delta}
}

// Detection implements Observer.
func (c *ChannelObserver) Detection(result DetectionResult) {
	c.events <- Event{Kind: DetectionEvent, Result: result}
}

// Completed implements Observer.
func (c *ChannelObserver) Completed(report Report) {
	c.events <- Event{Kind: CompletedEvent, Report: report}
}

// LogObserver writes notifications to logrus.
type LogObserver struct{}

// Status implements Observer.
func (LogObserver) Status(message string) {
	logrus.Info(message)
}

// Progress implements Observer.
func (LogObserver) Progress(current, total int) {
	logrus.Debugf("Progress %d/%d", current, total)
}

// ProcessWrite implements Observer.
func (LogObserver) ProcessWrite(info process.Info, delta uint64) {
	logrus.WithFields(logrus.Fields{"pid": info.PID, "name": info.Name}).Debugf("Wrote %d bytes", delta)
}

// Detection implements Observer.
func (LogObserver) Detection(result DetectionResult) {
	logrus.WithFields(logrus.Fields{
		"pid":  result.PID,
		"name": result.Name,
		"path": result.Path,
	}).Warnf("Possible keylogger: correlation %.4f above threshold %.2f", result.Correlation, result.Threshold)
}

// Completed implements Observer.
func (LogObserver) Completed(report Report) {
	entry := logrus.WithFields(logrus.Fields{
		"run":        report.RunID,
		"outcome":    report.Outcome,
		"results":    len(report.Results),
		"detections": len(report.Detections()),
		"duration":   report.Finished.Sub(report.Started),
	})
	if report.Err != nil {
		entry.Errorf("Experiment finished: %v", report.Err)
		return
	}
	entry.Info("Experiment finished")
}

// MultiObserver forwards notifications to all observers in order.
type MultiObserver []Observer

// Status implements Observer.
func (m MultiObserver) Status(message string) {
	for _, o := range m {
		o.Status(message)
	}
}

// Progress implements Observer.
func (m MultiObserver) Progress(current, total int) {
	for _, o := range m {
		o.Progress(current, total)
	}
}

// ProcessWrite implements Observer.
func (m MultiObserver) ProcessWrite(info process.Info, delta uint64) {
	for _, o := range m {
		o.ProcessWrite(info, delta)
	}
}

// Detection implements Observer.
func (m MultiObserver) Detection(result DetectionResult) {
	for _, o := range m {
		o.Detection(result)
	}
}

// Completed implements Observer.
func (m MultiObserver) Completed(report Report) {
	for _, o := range m {
		o.Completed(report)
	}
}

// injectorObserver forwards injector notifications to the run observer.
type injectorObserver struct {
	observer Observer
	steps    int
}

func (i injectorObserver) Status(message string) {
	i.observer.Status("Injector: " + message)
}

func (i injectorObserver) ProcessWrite(info process.Info, delta uint64) {
	i.observer.ProcessWrite(info, delta)
}

// IntervalDone reports progress after the four phase steps preceding injection.
func (i injectorObserver) IntervalDone(interval, total int) {
	i.observer.Progress(interval+4, i.steps)
}
