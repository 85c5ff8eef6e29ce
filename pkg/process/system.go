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

import (
	"context"

	"github.com/pkg/errors"
	psprocess "github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"
)

// SystemEnumerator lists processes with gopsutil.
type SystemEnumerator struct{}

// NewSystemEnumerator returns portable Enumerator.
func NewSystemEnumerator() Enumerator {
	return SystemEnumerator{}
}

// List implements Enumerator.
// Processes which vanish during enumeration or deny access to their counters are skipped.
func (SystemEnumerator) List(ctx context.Context) ([]Info, error) {
	processes, err := psprocess.ProcessesWithContext(ctx)
	if err != nil {
		return nil, queryError(err, "cannot list processes")
	}

	infos := make([]Info, 0, len(processes))
	for _, p := range processes {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			logrus.Debugf("Skipping process %d: cannot read name: %v", p.Pid, err)
			continue
		}
		counters, err := p.IOCountersWithContext(ctx)
		if err != nil {
			logrus.Debugf("Skipping process %d (%s): cannot read io counters: %v", p.Pid, name, err)
			continue
		}
		// Executable path is optional, e.g. for kernel threads.
		exe, _ := p.ExeWithContext(ctx)

		infos = append(infos, Info{
			PID:        p.Pid,
			Name:       name,
			Path:       exe,
			WriteBytes: counters.WriteBytes,
		})
	}
	return infos, nil
}

// SystemLifecycle suspends and terminates processes with gopsutil.
type SystemLifecycle struct{}

// NewSystemLifecycle returns Lifecycle of local processes.
func NewSystemLifecycle() Lifecycle {
	return SystemLifecycle{}
}

// Suspend implements Lifecycle.
func (SystemLifecycle) Suspend(pid int32) bool {
	return signalProcess(pid, "suspend", (*psprocess.Process).Suspend)
}

// Terminate implements Lifecycle.
func (SystemLifecycle) Terminate(pid int32) bool {
	return signalProcess(pid, "terminate", (*psprocess.Process).Terminate)
}

func signalProcess(pid int32, action string, do func(*psprocess.Process) error) bool {
	p, err := psprocess.NewProcess(pid)
	if err == nil {
		err = do(p)
	}
	if err != nil {
		logrus.Warnf("Cannot %s process %d: %v", action, pid, errors.WithStack(err))
		return false
	}
	logrus.Infof("Process %d: %s done", pid, action)
	return true
}
