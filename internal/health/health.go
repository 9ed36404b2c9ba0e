package health

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db    Pinger
	redis func(ctx context.Context) bool
	start time.Time
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database ComponentCheck `json:"database"`
	Cache    ComponentCheck `json:"cache"`
}

type ComponentCheck struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// DetailedStatus adds host resource usage to HealthStatus.
type DetailedStatus struct {
	HealthStatus
	Uptime        string  `json:"uptime"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryTotal   string  `json:"memory_total"`
	DiskPercent   float64 `json:"disk_percent"`
}

// NewHealthChecker builds a checker. redis may be nil when no cache is configured.
func NewHealthChecker(db Pinger, redis func(ctx context.Context) bool) *HealthChecker {
	return &HealthChecker{db: db, redis: redis, start: time.Now()}
}

// CheckBasic pings the database and cache. Only the database decides
// readiness; the cache is optional.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Cache:    h.checkCache(ctx),
	}
}

// CheckDetailed samples CPU over 200ms, so keep it off hot paths.
func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	out := DetailedStatus{
		HealthStatus: h.CheckBasic(ctx),
		Uptime:       time.Since(h.start).Round(time.Second).String(),
	}

	if percents, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(percents) > 0 {
		out.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		out.MemoryPercent = vm.UsedPercent
		out.MemoryUsed = formatBytes(vm.Used)
		out.MemoryTotal = formatBytes(vm.Total)
	}
	if du, err := disk.UsageWithContext(ctx, "/"); err == nil {
		out.DiskPercent = du.UsedPercent
	}
	return out
}

func (h *HealthChecker) checkDatabase(ctx context.Context) ComponentCheck {
	if h.db == nil {
		return ComponentCheck{Status: "unconfigured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentCheck{Status: "unhealthy", ResponseTime: responseTime}
	}
	return ComponentCheck{Status: "healthy", ResponseTime: responseTime}
}

func (h *HealthChecker) checkCache(ctx context.Context) ComponentCheck {
	if h.redis == nil {
		return ComponentCheck{Status: "disabled"}
	}
	start := time.Now()
	ok := h.redis(ctx)
	responseTime := time.Since(start).Milliseconds()
	if !ok {
		return ComponentCheck{Status: "unavailable", ResponseTime: responseTime}
	}
	return ComponentCheck{Status: "healthy", ResponseTime: responseTime}
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
