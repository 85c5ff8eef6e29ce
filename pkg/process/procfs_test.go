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
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFakeProcess(root, pid, name string, wchar string) {
	dir := path.Join(root, pid)
	So(os.MkdirAll(dir, 0755), ShouldBeNil)
	status := "Name:\t" + name + "\nState:\tS (sleeping)\nPid:\t" + pid + "\n"
	So(ioutil.WriteFile(path.Join(dir, "status"), []byte(status), 0644), ShouldBeNil)
	io := "rchar: 100\nwchar: " + wchar + "\nsyscr: 1\nsyscw: 2\nread_bytes: 0\nwrite_bytes: 4096\ncancelled_write_bytes: 0\n"
	So(ioutil.WriteFile(path.Join(dir, "io"), []byte(io), 0644), ShouldBeNil)
}

func TestProcfsEnumerator(t *testing.T) {
	Convey("With fake procfs", t, func() {
		root, err := ioutil.TempDir("", "procfs")
		So(err, ShouldBeNil)
		defer os.RemoveAll(root)

		writeFakeProcess(root, "42", "keylog", "1234")
		writeFakeProcess(root, "7", "editor", "99")
		So(os.Symlink("/opt/keylog/bin/keylog", path.Join(root, "42", "exe")), ShouldBeNil)
		// Not a process directory.
		So(os.MkdirAll(path.Join(root, "sys"), 0755), ShouldBeNil)
		// Process without io counters.
		So(os.MkdirAll(path.Join(root, "99"), 0755), ShouldBeNil)

		Convey("processes are listed with wchar counters in pid order", func() {
			infos, err := NewProcfsEnumerator(root).List(context.Background())
			So(err, ShouldBeNil)
			So(infos, ShouldResemble, []Info{
				{PID: 7, Name: "editor", WriteBytes: 99},
				{PID: 42, Name: "keylog", Path: "/opt/keylog/bin/keylog", WriteBytes: 1234},
			})
		})

		Convey("cancelled context fails the query", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := NewProcfsEnumerator(root).List(ctx)
			So(errors.Cause(err), ShouldEqual, ErrQuery)
		})

		Convey("missing root fails the query", func() {
			_, err := NewProcfsEnumerator(path.Join(root, "missing")).List(context.Background())
			So(errors.Cause(err), ShouldEqual, ErrQuery)
		})
	})
}

func TestSystemEnumerator(t *testing.T) {
	Convey("System enumerator lists running processes", t, func() {
		infos, err := NewSystemEnumerator().List(context.Background())
		So(err, ShouldBeNil)
		for _, info := range infos {
			So(info.Name, ShouldNotBeEmpty)
		}
	})
}
