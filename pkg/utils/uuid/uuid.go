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

// Package uuid generates identifiers of experiment runs.
package uuid

import (
	"fmt"
	"time"

	gouuid "github.com/nu7hatch/gouuid"
	"github.com/sirupsen/logrus"
)

// New returns random (version 4) UUID string.
// When the system random source fails, a time based identifier is returned instead.
func New() string {
	id, err := gouuid.NewV4()
	if err != nil {
		logrus.Warnf("Cannot generate uuid: %v", err)
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return id.String()
}
