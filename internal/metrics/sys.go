package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// SysHealth is a snapshot of process and data directory health.
type SysHealth struct {
	Uptime       string `json:"uptime"`
	AllocMB      uint64 `json:"allocMb"`
	SysMB        uint64 `json:"sysMb"`
	NumGC        uint32 `json:"numGc"`
	Goroutines   int    `json:"goroutines"`
	DataDiskSize string `json:"dataDiskSize"`
}

// Collector reports health relative to its start time.
type Collector struct {
	started  time.Time
	dataPath string
}

// NewCollector starts a Collector measuring the size of dataPath. An empty
// dataPath skips the disk measurement.
func NewCollector(dataPath string) *Collector {
	return &Collector{started: time.Now(), dataPath: dataPath}
}

// Snapshot collects real-time health data.
func (c *Collector) Snapshot() SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	h := SysHealth{
		Uptime:     time.Since(c.started).Round(time.Second).String(),
		AllocMB:    m.Alloc / 1024 / 1024,
		SysMB:      m.Sys / 1024 / 1024,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
	if c.dataPath != "" {
		h.DataDiskSize = FormatBytes(dirSize(c.dataPath))
	}
	return h
}

// dirSize sums regular file sizes under path. Unreadable entries count as
// zero.
func dirSize(path string) int64 {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

// FormatBytes renders size in binary units (512 B, 1.5 KB).
func FormatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
