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

package conf

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

// flagType is implemented by every registered flag.
type flagType interface {
	envName() string
	clear()
}

// definedFlags holds registered flags by name.
var definedFlags = map[string]flagType{}

// cliAndEnvFlag is a kingpin flag which can also be set with KLD_<NAME> environment variable.
type cliAndEnvFlag struct {
	*kingpin.FlagClause
}

func newCliAndEnvFlag(name, description, defaultValue string) *cliAndEnvFlag {
	c := &cliAndEnvFlag{FlagClause: app.Flag(name, description)}
	c.OverrideDefaultFromEnvar(c.envName())
	if defaultValue != "" {
		c.Default(defaultValue)
	}
	return c
}

// envName returns e.g. "KLD_KEYS_MIN" for flag "keys_min".
func (f *cliAndEnvFlag) envName() string {
	return fmt.Sprintf("%s_%s", EnvPrefix, strings.ToUpper(f.Model().Name))
}

func (f *cliAndEnvFlag) clear() {
	os.Unsetenv(f.envName())
}

// typed keeps default and parsed value of a flag.
type typed[T any] struct {
	*cliAndEnvFlag
	defaultValue T
	value        *T
}

// Value returns parsed value, or the default before ParseFlags or ParseEnv ran.
func (t typed[T]) Value() T {
	if !isEnvParsed {
		return t.defaultValue
	}
	return *t.value
}

// define registers flag of type F, or returns the flag registered earlier under the same name.
// Registering a name again with other type or default is a programming error and panics.
func define[F flagType](name string, sameDefault func(F) bool, create func() F) F {
	if existing, ok := definedFlags[name]; ok {
		f, sameType := existing.(F)
		if !sameType {
			panic(fmt.Sprintf("flag %q redefined with different type", name))
		}
		if !sameDefault(f) {
			panic(fmt.Sprintf("flag %q redefined with different default", name))
		}
		return f
	}

	f := create()
	definedFlags[name] = f
	isEnvParsed = false
	return f
}

// StringFlag is a flag with string value.
type StringFlag struct{ typed[string] }

// NewStringFlag registers StringFlag.
func NewStringFlag(name, description, defaultValue string) *StringFlag {
	return define(name,
		func(f *StringFlag) bool { return f.defaultValue == defaultValue },
		func() *StringFlag {
			c := newCliAndEnvFlag(name, description, defaultValue)
			return &StringFlag{typed[string]{c, defaultValue, c.String()}}
		})
}

// IntFlag is a flag with int value.
type IntFlag struct{ typed[int] }

// NewIntFlag registers IntFlag.
func NewIntFlag(name, description string, defaultValue int) *IntFlag {
	return define(name,
		func(f *IntFlag) bool { return f.defaultValue == defaultValue },
		func() *IntFlag {
			c := newCliAndEnvFlag(name, description, strconv.Itoa(defaultValue))
			return &IntFlag{typed[int]{c, defaultValue, c.Int()}}
		})
}

// FloatFlag is a flag with float64 value.
type FloatFlag struct{ typed[float64] }

// NewFloatFlag registers FloatFlag.
func NewFloatFlag(name, description string, defaultValue float64) *FloatFlag {
	return define(name,
		func(f *FloatFlag) bool { return f.defaultValue == defaultValue },
		func() *FloatFlag {
			c := newCliAndEnvFlag(name, description, strconv.FormatFloat(defaultValue, 'g', -1, 64))
			return &FloatFlag{typed[float64]{c, defaultValue, c.Float64()}}
		})
}

// BoolFlag is a flag with bool value.
type BoolFlag struct{ typed[bool] }

// NewBoolFlag registers BoolFlag.
func NewBoolFlag(name, description string, defaultValue bool) *BoolFlag {
	return define(name,
		func(f *BoolFlag) bool { return f.defaultValue == defaultValue },
		func() *BoolFlag {
			c := newCliAndEnvFlag(name, description, strconv.FormatBool(defaultValue))
			return &BoolFlag{typed[bool]{c, defaultValue, c.Bool()}}
		})
}

// DurationFlag is a flag with duration value, e.g. "1500ms".
type DurationFlag struct{ typed[time.Duration] }

// NewDurationFlag registers DurationFlag.
func NewDurationFlag(name, description string, defaultValue time.Duration) *DurationFlag {
	return define(name,
		func(f *DurationFlag) bool { return f.defaultValue == defaultValue },
		func() *DurationFlag {
			c := newCliAndEnvFlag(name, description, defaultValue.String())
			return &DurationFlag{typed[time.Duration]{c, defaultValue, c.Duration()}}
		})
}

// SliceFlag is a repeatable flag with comma separated string items.
type SliceFlag struct{ typed[[]string] }

// NewSliceFlag registers SliceFlag.
func NewSliceFlag(name, description string, defaults ...string) *SliceFlag {
	joined := strings.Join(defaults, stringListDelimiter)
	return define(name,
		func(f *SliceFlag) bool { return strings.Join(f.defaultValue, stringListDelimiter) == joined },
		func() *SliceFlag {
			c := newCliAndEnvFlag(name, description, joined)
			return &SliceFlag{typed[[]string]{c, append([]string{}, defaults...), StringList(c)}}
		})
}

// Value returns a copy of the parsed items, or of the defaults before parsing.
func (s SliceFlag) Value() []string {
	return append([]string{}, s.typed.Value()...)
}
