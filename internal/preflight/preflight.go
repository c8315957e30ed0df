package preflight

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	minMemoryBytes = 2 << 30  // 2 GiB
	minDiskBytes   = 10 << 30 // 10 GiB
)

// Prober is the subset of the command runner used to probe for tools.
type Prober interface {
	Capture(ctx context.Context, name string, args ...string) (string, error)
}

// Checker inspects the host before provisioning starts. Everything it finds
// is advisory: warnings are logged and the pipeline always proceeds.
type Checker struct {
	log    zerolog.Logger
	prober Prober
}

func New(log zerolog.Logger, prober Prober) *Checker {
	return &Checker{log: log, prober: prober}
}

// Check logs resource warnings and whether Docker needs installing.
func (c *Checker) Check(ctx context.Context) {
	c.log.Info().Msg("Performing pre-installation checks")

	var memTotal, diskFree uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		memTotal = vm.Total
	} else {
		c.log.Warn().Err(err).Msg("could not read memory info")
	}
	if du, err := disk.Usage("/"); err == nil {
		diskFree = du.Free
	} else {
		c.log.Warn().Err(err).Msg("could not read disk usage")
	}

	for _, w := range evaluate(memTotal, diskFree) {
		c.log.Warn().Msg(w)
	}

	if _, err := c.prober.Capture(ctx, "docker", "--version"); err == nil {
		c.log.Info().Msg("Docker is already installed")
	} else {
		c.log.Info().Msg("Docker is not installed; it will be installed")
	}
}

// evaluate turns raw resource readings into warning lines. A zero reading
// means the probe itself failed and is reported separately, not here.
func evaluate(memTotal, diskFree uint64) []string {
	var warnings []string
	if memTotal > 0 && memTotal < minMemoryBytes {
		warnings = append(warnings, fmt.Sprintf("available memory is %.2f GiB; minimum 2 GiB recommended", gib(memTotal)))
	}
	if diskFree > 0 && diskFree < minDiskBytes {
		warnings = append(warnings, fmt.Sprintf("available disk space is %.2f GiB; minimum 10 GiB recommended", gib(diskFree)))
	}
	return warnings
}

func gib(b uint64) float64 {
	return float64(b) / (1 << 30)
}
