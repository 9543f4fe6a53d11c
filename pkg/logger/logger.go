/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package logger provides structured logging using zerolog
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var errInvalidFormat = errors.New("invalid log format")

const (
	OutputStdout = "stdout"
	OutputStderr = "stderr"

	FormatJSON    = "json"
	FormatConsole = "console"
)

type Config struct {
	Level      string `json:"level" yaml:"level"`
	Debug      bool   `json:"debug" yaml:"debug"`
	Output     string `json:"output" yaml:"output"`
	Format     string `json:"format" yaml:"format"`
	TimeFormat string `json:"time_format" yaml:"time_format"`
}

// zlogger implements Logger on top of a zerolog.Logger value.
type zlogger struct {
	logger zerolog.Logger
}

// New builds a Logger from the provided configuration. A nil config uses DefaultConfig.
func New(config *Config) (Logger, error) {
	return NewWithWriter(config, nil)
}

// NewWithWriter is like New but writes to w instead of the configured output when w is non-nil.
func NewWithWriter(config *Config, w io.Writer) (Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	output := w
	if output == nil {
		output = os.Stderr
		if strings.EqualFold(config.Output, OutputStdout) {
			output = os.Stdout
		}
	}

	level := zerolog.InfoLevel

	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		var err error

		level, err = zerolog.ParseLevel(strings.ToLower(config.Level))
		if err != nil {
			return nil, err
		}
	}

	timeFormat := time.RFC3339
	if config.TimeFormat != "" {
		timeFormat = config.TimeFormat
	}

	switch strings.ToLower(config.Format) {
	case FormatConsole:
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: timeFormat}
	case FormatJSON, "":
		zerolog.TimeFieldFormat = timeFormat
	default:
		return nil, fmt.Errorf("%w: %s (expected '%s' or '%s')", errInvalidFormat, config.Format, FormatJSON, FormatConsole)
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &zlogger{logger: zlog}, nil
}

func (l *zlogger) Trace() *zerolog.Event {
	return l.logger.Trace()
}

func (l *zlogger) Debug() *zerolog.Event {
	return l.logger.Debug()
}

func (l *zlogger) Info() *zerolog.Event {
	return l.logger.Info()
}

func (l *zlogger) Warn() *zerolog.Event {
	return l.logger.Warn()
}

func (l *zlogger) Error() *zerolog.Event {
	return l.logger.Error()
}

func (l *zlogger) Fatal() *zerolog.Event {
	return l.logger.Fatal()
}

func (l *zlogger) Panic() *zerolog.Event {
	return l.logger.Panic()
}

func (l *zlogger) With() zerolog.Context {
	return l.logger.With()
}

func (l *zlogger) WithComponent(component string) zerolog.Logger {
	return l.logger.With().Str("component", component).Logger()
}

func (l *zlogger) WithFields(fields map[string]interface{}) zerolog.Logger {
	ctx := l.logger.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}

	return ctx.Logger()
}

func (l *zlogger) SetLevel(level zerolog.Level) {
	l.logger = l.logger.Level(level)
}

func (l *zlogger) SetDebug(debug bool) {
	if debug {
		l.SetLevel(zerolog.DebugLevel)
	} else {
		l.SetLevel(zerolog.InfoLevel)
	}
}

// Component wraps a zerolog.Logger (usually from WithComponent) back into a Logger.
func Component(parent Logger, component string) Logger {
	if parent == nil {
		return NewTestLogger()
	}

	return &zlogger{logger: parent.WithComponent(component)}
}
