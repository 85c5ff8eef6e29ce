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
	"github.com/pkg/errors"
)

const (
	// SystemSource selects SystemEnumerator.
	SystemSource = "system"
	// ProcfsSource selects ProcfsEnumerator.
	ProcfsSource = "procfs"
)

// EnumeratorByName returns Enumerator for given source name.
func EnumeratorByName(name string) (Enumerator, error) {
	switch name {
	case SystemSource:
		return NewSystemEnumerator(), nil
	case ProcfsSource:
		return NewProcfsEnumerator(DefaultProcPath), nil
	default:
		return nil, errors.Errorf("unknown process source %q (available: %s, %s)", name, SystemSource, ProcfsSource)
	}
}
