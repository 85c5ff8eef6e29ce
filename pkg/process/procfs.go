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
	"os"
	"path"
	"sort"
	"strconv"

	linuxproc "github.com/c9s/goprocinfo/linux"
	"github.com/sirupsen/logrus"
)

// DefaultProcPath is the procfs mount point.
const DefaultProcPath = "/proc"

// ProcfsEnumerator lists processes by reading procfs directly.
// Write counter is "wchar" from /proc/<pid>/io: bytes passed to write calls, including those not reaching storage.
type ProcfsEnumerator struct {
	root string
}

// NewProcfsEnumerator returns Enumerator reading procfs mounted at root.
func NewProcfsEnumerator(root string) Enumerator {
	if root == "" {
		root = DefaultProcPath
	}
	return ProcfsEnumerator{root: root}
}

// List implements Enumerator.
func (e ProcfsEnumerator) List(ctx context.Context) ([]Info, error) {
	pids, err := e.pids()
	if err != nil {
		return nil, queryError(err, "cannot list pids")
	}

	infos := make([]Info, 0, len(pids))
	for _, pid := range pids {
		if err := ctx.Err(); err != nil {
			return nil, queryError(err, "listing interrupted")
		}
		dir := path.Join(e.root, strconv.Itoa(int(pid)))

		status, err := linuxproc.ReadProcessStatus(path.Join(dir, "status"))
		if err != nil {
			logrus.Debugf("Skipping process %d: %v", pid, err)
			continue
		}
		io, err := linuxproc.ReadProcessIO(path.Join(dir, "io"))
		if err != nil {
			logrus.Debugf("Skipping process %d (%s): %v", pid, status.Name, err)
			continue
		}
		exe, _ := os.Readlink(path.Join(dir, "exe"))

		infos = append(infos, Info{
			PID:        pid,
			Name:       status.Name,
			Path:       exe,
			WriteBytes: io.WChar,
		})
	}
	return infos, nil
}

// pids returns numeric entries of the procfs root in ascending order.
// linuxproc.ListPID stats every number up to pid_max, which is too slow to run each interval.
func (e ProcfsEnumerator) pids() ([]int32, error) {
	entries, err := os.ReadDir(e.root)
	if err != nil {
		return nil, err
	}
	pids := []int32{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.ParseInt(entry.Name(), 10, 32)
		if err != nil {
			continue
		}
		pids = append(pids, int32(pid))
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids, nil
}
