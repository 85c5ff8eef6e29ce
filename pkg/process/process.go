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

// Package process enumerates running processes and their cumulative write counters.
package process

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// ErrQuery is the cause of every enumeration failure.
var ErrQuery = errors.New("process query failed")

// Info describes a process at the time of a snapshot.
// Path is empty when it cannot be read.
type Info struct {
	PID        int32
	Name       string
	Path       string
	WriteBytes uint64
}

// Enumerator returns a full snapshot of running processes.
type Enumerator interface {
	List(ctx context.Context) ([]Info, error)
}

// Lifecycle suspends and terminates processes.
type Lifecycle interface {
	Suspend(pid int32) bool
	Terminate(pid int32) bool
}

// Filter excludes processes which should never be monitored.
// Names and prefixes are compared case-insensitively.
type Filter struct {
	SafeNames        []string
	ExcludedPrefixes []string
}

// Excluded reports whether info is filtered out. Processes with pid 0 or empty name are always excluded,
// and an empty path never matches a prefix.
func (f Filter) Excluded(info Info) bool {
	if info.PID == 0 || info.Name == "" {
		return true
	}
	for _, name := range f.SafeNames {
		if strings.EqualFold(name, info.Name) {
			return true
		}
	}
	if info.Path == "" {
		return false
	}
	path := strings.ToLower(info.Path)
	for _, prefix := range f.ExcludedPrefixes {
		if prefix != "" && strings.HasPrefix(path, strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}

// Candidates returns processes which are not excluded, in input order.
func (f Filter) Candidates(infos []Info) []Info {
	candidates := []Info{}
	for _, info := range infos {
		if !f.Excluded(info) {
			candidates = append(candidates, info)
		}
	}
	return candidates
}

func queryError(err error, msg string) error {
	return errors.Wrapf(ErrQuery, "%s: %v", msg, err)
}
