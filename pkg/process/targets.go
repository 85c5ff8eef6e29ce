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

package process

// Targets holds monitored process ids, in order of discovery, and the last known info of each of them.
// It is not safe for concurrent use; one owner mutates it at a time.
type Targets struct {
	IDs  []int32
	Info map[int32]Info
}

// NewTargets returns Targets monitoring given processes.
func NewTargets(infos []Info) *Targets {
	t := &Targets{Info: map[int32]Info{}}
	for _, info := range infos {
		t.Add(info)
	}
	return t
}

// Add starts monitoring info and returns true if it was not monitored yet.
// Info of an already monitored process is updated.
func (t *Targets) Add(info Info) bool {
	if t.Info == nil {
		t.Info = map[int32]Info{}
	}
	_, known := t.Info[info.PID]
	t.Info[info.PID] = info
	if known {
		return false
	}
	t.IDs = append(t.IDs, info.PID)
	return true
}

// Update replaces info of a monitored process. Unknown processes are ignored.
func (t *Targets) Update(info Info) {
	if _, ok := t.Info[info.PID]; ok {
		t.Info[info.PID] = info
	}
}

// Contains reports whether pid is monitored.
func (t *Targets) Contains(pid int32) bool {
	_, ok := t.Info[pid]
	return ok
}

// Lookup returns last known info of pid.
func (t *Targets) Lookup(pid int32) (Info, bool) {
	info, ok := t.Info[pid]
	return info, ok
}

// Len returns number of monitored processes.
func (t *Targets) Len() int {
	return len(t.IDs)
}
