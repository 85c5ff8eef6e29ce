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
	"bytes"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

// EnvPrefix is prepended to the upper-cased flag name to build the environment variable name.
const EnvPrefix = "KLD"

var (
	app = kingpin.New("kldetect", "No help available")
	// Default flags and values.
	logLevelFlag = NewStringFlag(
		"log",
		"Log level: debug, info, warn, error, fatal, panic",
		"error",
	)
	isEnvParsed = false
)

// SetHelp sets the help message for the CLI.
func SetHelp(help string) {
	app.Help = help
}

// SetAppName sets application name for CLI output.
func SetAppName(name string) {
	app.Name = name
}

// AppName returns specified app name.
func AppName() string {
	return app.Name
}

// LogLevel returns configured logLevel from input option or env variable.
// If it cannot parse the log level, it returns default value.
func LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(logLevelFlag.Value())
	if err == nil {
		return level
	}

	level, err = logrus.ParseLevel(logLevelFlag.defaultValue)
	if err == nil {
		return level
	}

	// Programmer error.
	panic(errors.Wrap(err, "parsing log level failed"))
}

// ParseFlags parse both the command line flags of the process and
// environment variables.
func ParseFlags() error {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses given arguments and environment variables.
func ParseArgs(args []string) error {
	resetLists()
	_, err := app.Parse(args)
	if err == nil {
		isEnvParsed = true
		return nil
	}

	return errors.Wrapf(err, "could not parse command line flags")
}

// ParseEnv parse the environment for arguments.
func ParseEnv() error {
	resetLists()
	_, err := app.Parse([]string{})
	if err == nil {
		isEnvParsed = true
		return nil
	}

	return errors.Wrapf(err, "could not parse environment flags")
}

// resetLists empties cumulative flags, so parsing again does not append to previous values.
func resetLists() {
	for _, flag := range definedFlags {
		if slice, ok := flag.(*SliceFlag); ok {
			*slice.value = nil
		}
	}
}

type flagDefinition struct {
	Name, Value, Default, Help string
}

// getFlagsDefinition returns current, default, keys and description for every flag.
// Order follows registration so related flags stay grouped.
func getFlagsDefinition() (flags []flagDefinition) {
	for _, flag := range app.Model().Flags {
		// Kingpin builtins (help, version) can't be set from the environment.
		if strings.Contains(flag.Name, "-") {
			continue
		}

		var value interface{}
		if slv, ok := flag.Value.(*StringListVar); ok {
			value = strings.Join(*slv, stringListDelimiter)
		} else {
			// Kingpin keeps values in unexported structs, so dig them out with reflection.
			elem := reflect.ValueOf(flag.Value).Elem()
			switch elem.Kind() {
			case reflect.Int64, reflect.Int:
				// Only durations are stored as a bare int64.
				value = time.Duration(elem.Int())
			case reflect.Struct:
				valueInField := elem.FieldByName("v").Elem()
				switch valueInField.Kind() {
				case reflect.String:
					value = valueInField.String()
				case reflect.Bool:
					value = valueInField.Bool()
				case reflect.Int64, reflect.Int:
					value = valueInField.Int()
				case reflect.Float64:
					value = valueInField.Float()
				default:
					logrus.Debugf("unhandled flag %s kind=%s", flag.Name, valueInField.Kind())
				}
			}
		}

		flags = append(flags, flagDefinition{
			Name:    flag.Name,
			Help:    flag.Help,
			Default: strings.Join(flag.Default, stringListDelimiter),
			Value:   fmt.Sprintf("%v", value),
		})
	}

	return flags
}

// DumpConfig renders current values of all flags as a sourceable shell script.
func DumpConfig() string {
	buffer := &bytes.Buffer{}
	buffer.WriteString("# Export are values.\n")
	buffer.WriteString("set -o allexport\n")

	for _, fd := range getFlagsDefinition() {
		fmt.Fprintf(buffer, "\n# %s\n", fd.Help)
		if fd.Default != "" {
			fmt.Fprintf(buffer, "# Default: %s\n", fd.Default)
		}
		fmt.Fprintf(buffer, "%s_%s=%s\n", EnvPrefix, strings.ToUpper(fd.Name), fd.Value)
	}

	buffer.WriteString("set +o allexport")
	return buffer.String()
}
