// Copyright 2022 Matrix Origin
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

package logutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetGlobalLogger(zap.New(core))
	defer SetGlobalLogger(nil)

	Info("hello", zap.Int("n", 1))
	Debug("dbg")
	Warn("warn")
	Error("err")

	require.Equal(t, 4, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "hello", entry.Message)
	require.Equal(t, int64(1), entry.ContextMap()["n"])
}

func TestSetGlobalLoggerNil(t *testing.T) {
	SetGlobalLogger(nil)
	require.NotNil(t, GetGlobalLogger())
	// the no-op logger must accept writes
	Info("ignored")
}
