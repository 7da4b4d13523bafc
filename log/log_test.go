// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapInfo(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(InfoLevel, buffer)
	logger.Info("failed to create actor")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "failed to create actor", entry["msg"])
	assert.Equal(t, InfoLevel, logger.LogLevel())
}

func TestZapDebugDisabledAtInfo(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(InfoLevel, buffer)
	logger.Debug("noise")
	assert.Zero(t, buffer.Len())
}

func TestZapFormatted(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(DebugLevel, buffer)
	logger.Debugf("spawned %d instances", 4)
	assert.True(t, strings.Contains(buffer.String(), "spawned 4 instances"))
	assert.Equal(t, DebugLevel, logger.LogLevel())
}

func TestZapOutputs(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(WarningLevel, buffer)
	outputs := logger.LogOutput()
	require.Len(t, outputs, 1)
	assert.Equal(t, WarningLevel, logger.LogLevel())
	assert.NotNil(t, logger.StdLogger())
}

func TestDiscard(t *testing.T) {
	logger := DiscardLogger
	logger.Info("dropped")
	logger.Warnf("dropped %s", "again")
	assert.Equal(t, InvalidLevel, logger.LogLevel())
	assert.Equal(t, discardOutputs, logger.LogOutput())
	assert.Panics(t, func() { logger.Panic("boom") })
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "INVALID", Level(42).String())
}
