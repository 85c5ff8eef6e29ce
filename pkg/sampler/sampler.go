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

// Package sampler turns cumulative write counters into per-interval deltas.
package sampler

import (
	"github.com/intelsdi-x/kldetect/pkg/process"
)

// Sampler keeps the last observed cumulative counter (baseline) of every process.
// It is owned by a single run and is not safe for concurrent use.
type Sampler struct {
	baselines map[int32]uint64
}

// New returns Sampler without baselines.
func New() *Sampler {
	return &Sampler{baselines: map[int32]uint64{}}
}

// Snapshot maps process ids to their cumulative write counters.
func Snapshot(infos []process.Info) map[int32]uint64 {
	snapshot := make(map[int32]uint64, len(infos))
	for _, info := range infos {
		snapshot[info.PID] = info.WriteBytes
	}
	return snapshot
}

// Seed sets baseline of pid, e.g. for a process discovered in the middle of a run.
func (s *Sampler) Seed(pid int32, count uint64) {
	s.baselines[pid] = count
}

// Baseline returns last observed counter of pid.
func (s *Sampler) Baseline(pid int32) (uint64, bool) {
	count, ok := s.baselines[pid]
	return count, ok
}

// Forget drops baseline of pid.
func (s *Sampler) Forget(pid int32) {
	delete(s.baselines, pid)
}

// Sample returns deltas of monitored processes present both in snapshot and in baselines.
// A counter lower than its baseline (restart) gives zero delta.
// Monitored processes missing from snapshot lose their baseline, so a reappearing process starts fresh.
// Afterwards baselines of monitored processes present in snapshot are replaced with current values.
func (s *Sampler) Sample(snapshot map[int32]uint64, monitored []int32) map[int32]uint64 {
	deltas := map[int32]uint64{}
	for _, pid := range monitored {
		current, present := snapshot[pid]
		if !present {
			s.Forget(pid)
			continue
		}
		if last, known := s.baselines[pid]; known {
			if current >= last {
				deltas[pid] = current - last
			} else {
				deltas[pid] = 0
			}
		}
		s.baselines[pid] = current
	}
	return deltas
}
