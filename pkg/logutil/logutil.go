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

// Package logutil holds the process-global logger shared by all strmap
// packages. Embedding applications that already run zap should install
// their own logger via SetGlobalLogger before creating any maps or
// arenas; otherwise a no-op logger is used.
package logutil

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(zap.NewNop())
}

// SetGlobalLogger replaces the process-global logger. Passing nil resets
// to a no-op logger.
func SetGlobalLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	global.Store(logger)
}

// GetGlobalLogger returns the current process-global logger.
func GetGlobalLogger() *zap.Logger {
	return global.Load()
}

func Debug(msg string, fields ...zap.Field) {
	global.Load().WithOptions(zap.AddCallerSkip(1)).Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	global.Load().WithOptions(zap.AddCallerSkip(1)).Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	global.Load().WithOptions(zap.AddCallerSkip(1)).Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	global.Load().WithOptions(zap.AddCallerSkip(1)).Error(msg, fields...)
}
