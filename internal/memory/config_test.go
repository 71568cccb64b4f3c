package memory

import (
	"runtime/debug"
	"testing"
)

// restoreLimit resets the process memory limit after a test mutates it.
func restoreLimit(t *testing.T) {
	t.Helper()
	prev := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(prev) })
}

func TestConfigureFromEnvUnset(t *testing.T) {
	restoreLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("CATALOG_MEMORY_LIMIT", "")

	result := ConfigureFromEnv()

	if result.Configured {
		t.Error("Expected no configuration without environment variables")
	}
	if result.Source != "none" {
		t.Errorf("Expected source %q, got %q", "none", result.Source)
	}
}

func TestConfigureFromEnvGoMemLimitWins(t *testing.T) {
	restoreLimit(t)
	t.Setenv("GOMEMLIMIT", "512MiB")
	t.Setenv("CATALOG_MEMORY_LIMIT", "1073741824")

	result := ConfigureFromEnv()

	// The runtime applies GOMEMLIMIT at startup; here it only matters
	// that the container limit path is not taken.
	if result.Source != "GOMEMLIMIT" {
		t.Errorf("Expected source %q, got %q", "GOMEMLIMIT", result.Source)
	}
	if result.ContainerLimit != 0 {
		t.Errorf("Expected container limit to stay unread, got %d", result.ContainerLimit)
	}
}

func TestConfigureFromEnvContainerLimit(t *testing.T) {
	restoreLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("CATALOG_MEMORY_LIMIT", "1073741824")
	t.Setenv("CATALOG_MEMORY_RATIO", "")

	result := ConfigureFromEnv()

	if !result.Configured {
		t.Fatal("Expected a configured limit")
	}
	if result.Source != "CATALOG_MEMORY_LIMIT" {
		t.Errorf("Expected source %q, got %q", "CATALOG_MEMORY_LIMIT", result.Source)
	}
	if result.ContainerLimit != 1073741824 {
		t.Errorf("Expected container limit 1073741824, got %d", result.ContainerLimit)
	}
	containerLimit := int64(1073741824)
	want := int64(float64(containerLimit) * DefaultRatio)
	if result.GoMemLimit != want {
		t.Errorf("Expected Go limit %d, got %d", want, result.GoMemLimit)
	}
	if active := debug.SetMemoryLimit(-1); active != want {
		t.Errorf("Expected active limit %d, got %d", want, active)
	}
}

func TestConfigureFromEnvCustomRatio(t *testing.T) {
	restoreLimit(t)
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("CATALOG_MEMORY_LIMIT", "1000000000")
	t.Setenv("CATALOG_MEMORY_RATIO", "0.5")

	result := ConfigureFromEnv()

	if result.Ratio != 0.5 {
		t.Errorf("Expected ratio 0.5, got %v", result.Ratio)
	}
	if result.GoMemLimit != 500000000 {
		t.Errorf("Expected Go limit 500000000, got %d", result.GoMemLimit)
	}
}

func TestConfigureFromEnvBadValues(t *testing.T) {
	tests := []struct {
		name  string
		limit string
		ratio string
		// wantConfigured is false when the limit itself is unusable
		wantConfigured bool
		wantRatio      float64
	}{
		{"limit not a number", "lots", "", false, 0},
		{"negative limit", "-5", "", false, 0},
		{"zero limit", "0", "", false, 0},
		{"ratio not a number", "1000000000", "most", true, DefaultRatio},
		{"ratio above one", "1000000000", "1.5", true, DefaultRatio},
		{"ratio zero", "1000000000", "0", true, DefaultRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreLimit(t)
			t.Setenv("GOMEMLIMIT", "")
			t.Setenv("CATALOG_MEMORY_LIMIT", tt.limit)
			t.Setenv("CATALOG_MEMORY_RATIO", tt.ratio)

			result := ConfigureFromEnv()

			if result.Configured != tt.wantConfigured {
				t.Errorf("Expected configured=%v, got %v", tt.wantConfigured, result.Configured)
			}
			if tt.wantConfigured && result.Ratio != tt.wantRatio {
				t.Errorf("Expected ratio %v, got %v", tt.wantRatio, result.Ratio)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{1073741824, "1.0 GiB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatBytes(tt.bytes); got != tt.want {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
