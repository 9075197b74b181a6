// Package sysinfo reports host load for the status command and endpoint.
package sysinfo

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

const gib = 1 << 30

type Snapshot struct {
	OS              string  `json:"os"`
	Platform        string  `json:"platform"`
	Hostname        string  `json:"hostname"`
	CPUCount        int     `json:"cpu_count"`
	CPUUsage        float64 `json:"cpu_usage"`
	MemoryUsage     float64 `json:"memory_usage"`
	MemoryTotal     float64 `json:"memory_total"`
	MemoryAvailable float64 `json:"memory_available"`
	DiskUsage       float64 `json:"disk_usage"`
	DiskFree        float64 `json:"disk_free"`
	Uptime          uint64  `json:"uptime_seconds"`
}

// Collector gathers a Snapshot. The probe fields exist so tests can swap
// them out.
type Collector struct {
	DiskPath string
	Interval time.Duration

	cpuPercent func(ctx context.Context, interval time.Duration, perCPU bool) ([]float64, error)
	cpuCount   func(ctx context.Context, logical bool) (int, error)
	memory     func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	diskUsage  func(ctx context.Context, path string) (*disk.UsageStat, error)
	hostInfo   func(ctx context.Context) (*host.InfoStat, error)
}

func NewCollector(goos string) *Collector {
	path := "/"
	if goos == "windows" {
		path = `C:\`
	}

	return &Collector{
		DiskPath:   path,
		Interval:   500 * time.Millisecond,
		cpuPercent: cpu.PercentWithContext,
		cpuCount:   cpu.CountsWithContext,
		memory:     mem.VirtualMemoryWithContext,
		diskUsage:  disk.UsageWithContext,
		hostInfo:   host.InfoWithContext,
	}
}

// Collect fails only when memory or disk cannot be read; cpu and host
// details are best effort.
func (c *Collector) Collect(ctx context.Context) (Snapshot, error) {
	s := Snapshot{OS: runtime.GOOS}

	vm, err := c.memory(ctx)
	if err != nil {
		return s, fmt.Errorf("memory: %w", err)
	}
	s.MemoryUsage = round(vm.UsedPercent)
	s.MemoryTotal = round(float64(vm.Total) / gib)
	s.MemoryAvailable = round(float64(vm.Available) / gib)

	du, err := c.diskUsage(ctx, c.DiskPath)
	if err != nil {
		return s, fmt.Errorf("disk %s: %w", c.DiskPath, err)
	}
	s.DiskUsage = round(du.UsedPercent)
	s.DiskFree = round(float64(du.Free) / gib)

	if pct, err := c.cpuPercent(ctx, c.Interval, false); err == nil && len(pct) > 0 {
		s.CPUUsage = round(pct[0])
	}
	if n, err := c.cpuCount(ctx, true); err == nil {
		s.CPUCount = n
	}
	if hi, err := c.hostInfo(ctx); err == nil {
		s.Platform = hi.Platform
		s.Hostname = hi.Hostname
		s.Uptime = hi.Uptime
	}

	return s, nil
}

// Summary is the spoken form.
func Summary(s Snapshot) string {
	return fmt.Sprintf("System Performance: CPU %s%%, Memory %s%%, Disk %s%% used",
		trim(s.CPUUsage), trim(s.MemoryUsage), trim(s.DiskUsage))
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}

func trim(v float64) string {
	return fmt.Sprintf("%g", v)
}
