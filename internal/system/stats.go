package system

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/mem"
)

// Stats collects stage timings for the performance report.
type Stats struct {
	BuildVersion string
	Scenes       int
	Start        time.Time
	Stages       []Stage
	OutputPath   string
}

// Stage is one timed pipeline stage.
type Stage struct {
	Name     string
	Duration time.Duration
}

// NewStats starts the clock.
func NewStats(version string) *Stats {
	return &Stats{BuildVersion: version, Start: time.Now()}
}

// Track runs fn and records its duration under name.
func (s *Stats) Track(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.Stages = append(s.Stages, Stage{Name: name, Duration: time.Since(start)})
	return err
}

// Write prints the performance report.
func (s *Stats) Write(w io.Writer) {
	total := time.Since(s.Start)

	fmt.Fprintln(w, "--- [PERFORMANCE REPORT] ---")
	fmt.Fprintf(w, "Build: %s\n", s.BuildVersion)
	fmt.Fprintf(w, "Scenes: %d\n", s.Scenes)
	fmt.Fprintf(w, "Total Time: %.2fs\n", total.Seconds())
	for _, st := range s.Stages {
		fmt.Fprintf(w, "%s: %.2fs\n", st.Name, st.Duration.Seconds())
	}
	if s.OutputPath != "" {
		if info, err := os.Stat(s.OutputPath); err == nil {
			fmt.Fprintf(w, "Output: %s (%s)\n", filepath.Base(s.OutputPath), humanize.Bytes(uint64(info.Size())))
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Fprintf(w, "Memory: %s used of %s (%.0f%%)\n",
			humanize.Bytes(vm.Used), humanize.Bytes(vm.Total), vm.UsedPercent)
	}
	fmt.Fprintln(w, "----------------------------")
}

// AppendLog appends a one-line summary to path.
func (s *Stats) AppendLog(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Build: %s | Scenes: %d | Total: %.2fs",
		time.Now().Format("2006-01-02 15:04:05"), s.BuildVersion, s.Scenes, time.Since(s.Start).Seconds())
	for _, st := range s.Stages {
		line += fmt.Sprintf(" | %s: %.2fs", st.Name, st.Duration.Seconds())
	}
	_, err = fmt.Fprintln(f, line)
	return err
}
