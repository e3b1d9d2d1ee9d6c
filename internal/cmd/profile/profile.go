// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

// Package profile records CPU and heap profiles for a command invocation.
package profile

import (
	"os"
	"runtime/pprof"
)

var stopFuncs []func() error

// StartProfiling begins CPU profiling right away and schedules a heap
// snapshot for StopProfiling.
func StartProfiling(cpuPath, memoryPath string) error {
	cpuFile, err := os.Create(cpuPath)
	if err != nil {
		return err
	}

	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return err
	}

	stopFuncs = append(stopFuncs, func() error {
		pprof.StopCPUProfile()
		return cpuFile.Close()
	})

	memoryFile, err := os.Create(memoryPath)
	if err != nil {
		return err
	}

	stopFuncs = append(stopFuncs, func() error {
		if err := pprof.WriteHeapProfile(memoryFile); err != nil {
			return err
		}
		return memoryFile.Close()
	})

	return nil
}

// StopProfiling flushes the profiles scheduled by StartProfiling. It is a
// no-op when profiling never started.
func StopProfiling() error {
	for _, stop := range stopFuncs {
		if err := stop(); err != nil {
			return err
		}
	}

	return nil
}
