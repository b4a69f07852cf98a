// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging sets up the structured log file for datachat.
//
// A terminal application cannot log to stdout without corrupting the
// alternate-screen rendering, so everything goes to a rotated JSON file
// under ~/.datachat/logs/. Nothing sensitive is ever logged: no tokens,
// no passwords, no message bodies.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "datachat.log"

// Options controls the log sink.
type Options struct {
	// Dir is the directory the log file lives in.
	Dir string
	// Level is the minimum level: "debug", "info", "warn", "error".
	Level string
	// MaxSizeMB is the file size that triggers rotation.
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int
}

// Setup creates the log directory and returns a JSON logger writing to a
// size-rotated file. The returned closer flushes buffered entries and
// should be deferred in main.
func Setup(opts Options) (*zap.Logger, func(), error) {
	if err := os.MkdirAll(opts.Dir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, logFileName),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	})

	core := zapcore.NewCore(encoder, sink, parseLevel(opts.Level))
	logger := zap.New(core)

	closer := func() {
		_ = logger.Sync()
	}
	return logger, closer, nil
}

// parseLevel maps a config level string to a zap level, defaulting to
// info for anything unrecognized.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
