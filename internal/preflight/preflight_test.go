package preflight

import (
	"strings"
	"testing"
)

func TestEvaluateBelowThresholds(t *testing.T) {
	warnings := evaluate(1<<30, 5<<30)
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "memory") || !strings.Contains(warnings[0], "1.00 GiB") {
		t.Fatalf("memory warning: %q", warnings[0])
	}
	if !strings.Contains(warnings[1], "disk") || !strings.Contains(warnings[1], "5.00 GiB") {
		t.Fatalf("disk warning: %q", warnings[1])
	}
}

func TestEvaluateHealthyHost(t *testing.T) {
	if w := evaluate(8<<30, 100<<30); len(w) != 0 {
		t.Fatalf("expected no warnings, got %v", w)
	}
}

func TestEvaluateAtThreshold(t *testing.T) {
	// Exactly at the minimum is acceptable.
	if w := evaluate(2<<30, 10<<30); len(w) != 0 {
		t.Fatalf("threshold values should not warn: %v", w)
	}
}

func TestEvaluateSkipsFailedProbes(t *testing.T) {
	// Zero readings mean the probe failed; that is reported elsewhere.
	if w := evaluate(0, 0); len(w) != 0 {
		t.Fatalf("failed probes should not produce resource warnings: %v", w)
	}
}
