package main

import (
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"sync"
	"time"
)

// cpuProfile is a CPU profile being written to a file.
type cpuProfile struct {
	path    string
	file    *os.File
	started time.Time
	once    sync.Once
}

// startCPUProfile begins profiling into path, replacing any existing file.
func startCPUProfile(path string) (*cpuProfile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("starting CPU profile: %w", err)
	}
	return &cpuProfile{path: path, file: f, started: time.Now()}, nil
}

// Stop ends the profile and closes the file. Later calls do nothing.
func (p *cpuProfile) Stop() {
	p.once.Do(func() {
		pprof.StopCPUProfile()
		if err := p.file.Close(); err != nil {
			log.Printf("Closing %s: %v", p.path, err)
			return
		}
		log.Printf("Wrote %s after %s", p.path, time.Since(p.started).Round(time.Second))
	})
}
