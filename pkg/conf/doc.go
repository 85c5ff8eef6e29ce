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

/*
Package conf wraps kingpin to provide:
- environment parsing with the KLD_ prefix,
- config dump in registration order (instead of lexicographical order),
- access to current values of registered flags before and after parsing,
- extra flag types e.g. SliceFlag and FloatFlag,
- a predefined log level flag (logrus integration).

Flags are registered at package init time, usually in a flags.go file of the
package that consumes them, and read through Value() once ParseFlags or
ParseEnv has run. Before that Value() returns the default.
*/
package conf
