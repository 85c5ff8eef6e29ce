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

// Package injector drives the timed loop which emits scheduled keystrokes and samples write counters.
package injector

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/intelsdi-x/kldetect/pkg/keyboard"
	"github.com/intelsdi-x/kldetect/pkg/process"
	"github.com/intelsdi-x/kldetect/pkg/sampler"
	"github.com/intelsdi-x/kldetect/pkg/translator"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config tunes a single injection run.
type Config struct {
	// PatternLength is the number of samples every series is padded to.
	PatternLength int
	// ExtraDelay is added to every interval.
	ExtraDelay time.Duration
	// SettleDelay is waited after every interval, so that buffered writes reach the counters.
	SettleDelay time.Duration
	// Filter is applied to processes discovered during the run.
	Filter process.Filter
	// Rand chooses emitted characters. Seeded from time when nil.
	Rand *rand.Rand
}

// Observer is notified about injection progress. Calls come from the goroutine running Run.
type Observer interface {
	Status(message string)
	ProcessWrite(info process.Info, delta uint64)
	IntervalDone(interval, total int)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

// Status implements Observer.
func (NopObserver) Status(string) {}

// ProcessWrite implements Observer.
func (NopObserver) ProcessWrite(process.Info, uint64) {}

// IntervalDone implements Observer.
func (NopObserver) IntervalDone(int, int) {}

// Result holds per-interval write deltas of processes which were active in at least half of intervals.
type Result struct {
	Series  map[int32][]uint64
	Targets *process.Targets
}

// Order returns ids of Series in ascending order.
func (r *Result) Order() []int32 {
	ids := make([]int32, 0, len(r.Series))
	for pid := range r.Series {
		ids = append(ids, pid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Injector emits keystrokes according to a schedule and records write deltas of monitored processes.
type Injector struct {
	emitter    keyboard.Emitter
	enumerator process.Enumerator
	config     Config
	observer   Observer
	rand       *rand.Rand
}

// New returns Injector. Nil observer is replaced with NopObserver.
func New(emitter keyboard.Emitter, enumerator process.Enumerator, config Config, observer Observer) *Injector {
	if observer == nil {
		observer = NopObserver{}
	}
	r := config.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Injector{
		emitter:    emitter,
		enumerator: enumerator,
		config:     config,
		observer:   observer,
		rand:       r,
	}
}

// Run executes all intervals of schedule. Targets is owned by Run until it returns; processes
// discovered during the run are added to it. On cancellation the returned error is caused by ctx.Err().
func (i *Injector) Run(ctx context.Context, schedule translator.Schedule, targets *process.Targets) (*Result, error) {
	if targets == nil {
		targets = process.NewTargets(nil)
	}
	length := i.config.PatternLength
	if length <= 0 {
		length = schedule.Len()
	}

	s := sampler.New()
	series := map[int32][]uint64{}
	for _, pid := range targets.IDs {
		if info, ok := targets.Lookup(pid); ok {
			s.Seed(pid, info.WriteBytes)
		}
		series[pid] = make([]uint64, 0, length)
	}

	i.status("Starting keystroke injection...")
	total := schedule.Len()
	for interval := 0; interval < total; interval++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "injection cancelled before interval %d", interval+1)
		}

		keys := schedule.KeysPerInterval[interval]
		duration := schedule.IntervalDuration
		i.status(fmt.Sprintf("Interval %d/%d: Injecting %d keys over %dms.", interval+1, total, keys, duration.Milliseconds()))
		started := time.Now()

		i.discover(ctx, targets, s, series, length)

		if err := i.emit(ctx, keys, duration); err != nil {
			return nil, errors.Wrapf(err, "injection cancelled in interval %d", interval+1)
		}

		infos, err := i.enumerator.List(ctx)
		if err != nil {
			logrus.Warnf("Interval %d: %v", interval+1, err)
			i.status(fmt.Sprintf("Warning: Error querying processes in interval: %v. Results for this interval may be incomplete.", err))
			// Zero keeps later samples aligned with their intervals; baselines are kept.
			for _, pid := range targets.IDs {
				if _, known := targets.Lookup(pid); known && len(series[pid]) < length {
					series[pid] = append(series[pid], 0)
				}
			}
		}
		deltas := map[int32]uint64{}
		if err == nil {
			deltas = s.Sample(sampler.Snapshot(infos), targets.IDs)
		}
		for _, pid := range targets.IDs {
			delta, ok := deltas[pid]
			if !ok {
				continue
			}
			info, known := targets.Lookup(pid)
			if !known || len(series[pid]) >= length {
				continue
			}
			series[pid] = append(series[pid], delta)
			i.observer.ProcessWrite(info, delta)
			logrus.Debugf("Interval %d: process %d (%s) wrote %d bytes", interval+1, pid, info.Name, delta)
		}

		remaining := duration - time.Since(started) + i.config.ExtraDelay
		if err := wait(ctx, remaining); err != nil {
			return nil, errors.Wrapf(err, "injection cancelled after interval %d", interval+1)
		}
		if err := wait(ctx, i.config.SettleDelay); err != nil {
			return nil, errors.Wrapf(err, "injection cancelled after interval %d", interval+1)
		}
		i.observer.IntervalDone(interval, total)
	}

	i.status("Injection finished.")
	return &Result{Series: filterInactive(pad(series, length)), Targets: targets}, nil
}

// discover adds processes which appeared since the last interval and re-seeds baselines of all
// listed candidates, so the next sample counts only writes made during this interval.
func (i *Injector) discover(ctx context.Context, targets *process.Targets, s *sampler.Sampler, series map[int32][]uint64, length int) {
	infos, err := i.enumerator.List(ctx)
	if err != nil {
		logrus.Warnf("Cannot discover new processes: %v", err)
		return
	}
	for _, info := range i.config.Filter.Candidates(infos) {
		if !targets.Add(info) {
			s.Seed(info.PID, info.WriteBytes)
			continue
		}
		s.Seed(info.PID, info.WriteBytes)
		series[info.PID] = make([]uint64, 0, length)
		logrus.Debugf("Monitoring new process %d (%s)", info.PID, info.Name)
	}
}

// emit sends keys characters spread evenly over duration, changing focus once in the middle.
func (i *Injector) emit(ctx context.Context, keys int, duration time.Duration) error {
	if keys <= 0 || duration <= 0 {
		return nil
	}
	waits := keyWaits(duration, keys)
	for k := 0; k < keys; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		ch := keyboard.RandomCharacter(i.rand)
		if err := i.emitter.EmitCharacter(ch); err != nil {
			logrus.Warnf("Cannot send key %q: %v", ch, err)
			i.status(fmt.Sprintf("Error sending key: %v. Skipping key.", err))
		}
		if k < len(waits) {
			if err := wait(ctx, waits[k]); err != nil {
				return err
			}
		}
		if k == keys/2 {
			if err := i.emitter.ForceFocusChange(); err != nil {
				logrus.Warnf("Cannot change focus: %v", err)
			}
		}
	}
	return nil
}

func (i *Injector) status(message string) {
	logrus.Info(message)
	i.observer.Status(message)
}

// keyWaits returns keys-1 whole millisecond waits between consecutive keys.
// The fractional part of every wait is carried to the next one, so the waits sum up to
// the exact per key delay on average.
func keyWaits(duration time.Duration, keys int) []time.Duration {
	if keys <= 1 {
		return nil
	}
	delay := float64(duration) / float64(time.Millisecond) / float64(keys)
	waits := make([]time.Duration, keys-1)
	carry := 0.0
	for k := range waits {
		current := delay + carry
		whole := math.Floor(current)
		carry = current - whole
		waits[k] = time.Duration(whole) * time.Millisecond
	}
	return waits
}

// wait blocks for d or until ctx is done. Non positive d only checks ctx.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// pad appends zeros to every series shorter than length.
func pad(series map[int32][]uint64, length int) map[int32][]uint64 {
	for pid, values := range series {
		for len(values) < length {
			values = append(values, 0)
		}
		series[pid] = values
	}
	return series
}

// filterInactive drops series with at least half (rounded down) zero entries.
func filterInactive(series map[int32][]uint64) map[int32][]uint64 {
	active := map[int32][]uint64{}
	for pid, values := range series {
		zeros := 0
		for _, v := range values {
			if v == 0 {
				zeros++
			}
		}
		if zeros < len(values)/2 {
			active[pid] = values
		}
	}
	return active
}
