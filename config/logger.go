// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a logger writing to stderr and, if a directory is
// configured, to a rotating log file.
func NewLogger(c *Logging) (logging.Logger, error) {
	level, err := logging.ToLevel(c.Level)
	if err != nil {
		return nil, err
	}
	cores := []logging.WrappedCore{
		logging.NewWrappedCore(level, os.Stderr, logging.Plain.ConsoleEncoder()),
	}
	if c.Directory != "" {
		rw := &lumberjack.Logger{
			Filename:   filepath.Join(c.Directory, c.Name+".log"),
			MaxSize:    c.MaxSize,  // megabytes
			MaxAge:     c.MaxAge,   // days
			MaxBackups: c.MaxFiles, // files
			Compress:   c.Compress,
		}
		cores = append(cores, logging.NewWrappedCore(level, rw, logging.Plain.FileEncoder()))
	}
	return logging.NewLogger(c.Name, cores...), nil
}
