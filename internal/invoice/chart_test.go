package invoice

import (
	"bytes"
	"testing"

	"voltabot/internal/catalog"
	"voltabot/internal/pricing"
)

func mustBreakdown(t *testing.T) pricing.Breakdown {
	t.Helper()
	b, ok := pricing.Calculate(catalog.Default(), completeDraft(t))
	if !ok {
		t.Fatal("expected complete draft")
	}
	return b
}

func TestRenderBreakdownChart(t *testing.T) {
	png, err := renderBreakdownChart(mustBreakdown(t))
	if err != nil {
		t.Fatalf("renderBreakdownChart failed: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("chart is not a PNG image")
	}
}
