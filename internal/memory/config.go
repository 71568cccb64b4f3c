package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"media-catalog/internal/logging"
)

// DefaultRatio is the share of the container memory limit given to the
// Go heap. The rest covers the SQLite page cache, CGO allocations, and
// goroutine stacks.
const DefaultRatio = 0.85

// Result reports how GOMEMLIMIT was configured.
type Result struct {
	// Configured is true when a concrete limit is active
	Configured bool

	// Source is "GOMEMLIMIT", "CATALOG_MEMORY_LIMIT", or "none"
	Source string

	// ContainerLimit is the container memory limit in bytes (0 if unknown)
	ContainerLimit int64

	// GoMemLimit is the active Go heap limit in bytes (0 if none)
	GoMemLimit int64

	// Ratio is the share of the container limit used (0 if not applicable)
	Ratio float64
}

// ConfigureFromEnv sets GOMEMLIMIT from the container memory limit.
// Call it first in main, before significant allocations.
//
// GOMEMLIMIT itself takes precedence; the Go runtime already applied it.
// Otherwise CATALOG_MEMORY_LIMIT (bytes, from the Downward API or the
// container runtime) scaled by CATALOG_MEMORY_RATIO sets the limit.
// With neither set the runtime default (no limit) stands.
func ConfigureFromEnv() Result {
	result := Result{Source: "none"}

	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		result.Source = "GOMEMLIMIT"
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", env)
		return result
	}

	limitStr := os.Getenv("CATALOG_MEMORY_LIMIT")
	if limitStr == "" {
		logging.Debug("CATALOG_MEMORY_LIMIT not set, leaving GOMEMLIMIT unconfigured")
		return result
	}

	containerLimit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || containerLimit <= 0 {
		logging.Warn("Ignoring invalid CATALOG_MEMORY_LIMIT %q", limitStr)
		return result
	}
	result.ContainerLimit = containerLimit

	ratio := DefaultRatio
	if ratioStr := os.Getenv("CATALOG_MEMORY_RATIO"); ratioStr != "" {
		parsed, err := strconv.ParseFloat(ratioStr, 64)
		if err != nil || parsed <= 0 || parsed > 1.0 {
			logging.Warn("CATALOG_MEMORY_RATIO %q out of range (0.0-1.0), using %.2f", ratioStr, DefaultRatio)
		} else {
			ratio = parsed
		}
	}
	result.Ratio = ratio

	goLimit := int64(float64(containerLimit) * ratio)
	debug.SetMemoryLimit(goLimit)

	result.Configured = true
	result.Source = "CATALOG_MEMORY_LIMIT"
	result.GoMemLimit = goLimit

	logging.Info("Configured GOMEMLIMIT: %s (%.0f%% of %s container limit)",
		formatBytes(goLimit), ratio*100, formatBytes(containerLimit))
	return result
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
