package presentation

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		status string
		want   Treatment
	}{
		{"Saludable", Positive},
		{"Mostly healthy", Positive},
		{"Requiere Atención", Warning},
		{"needs attention", Warning},
		{"Enferma", Negative},
		{"Condición Crítica", Negative},
		{"diseased", Negative},
		{"critical", Negative},
		{"No saludable", Negative},
		{"Poco saludable", Negative},
		{"unhealthy", Negative},
		{"not healthy", Negative},
		{"Estable", Unrecognized},
		{"", Unrecognized},
	}
	for _, tt := range tests {
		if got := Classify(tt.status); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestClassifyOrder(t *testing.T) {
	// positive keywords are checked before negative ones
	if got := Classify("saludable pero crítica"); got != Positive {
		t.Errorf("got %s, want positive", got)
	}
	// negated forms are checked before positive ones
	if got := Classify("Planta no saludable"); got != Negative {
		t.Errorf("got %s, want negative", got)
	}
}

func TestIconFor(t *testing.T) {
	tests := map[string]Icon{
		"Saludable":         IconCheck,
		"Falta de agua":     IconDroplets,
		"Plaga detectada":   IconBug,
		"Requiere atención": IconAlert,
		"No saludable":      IconAlert,
	}
	for status, want := range tests {
		if got := IconFor(status); got != want {
			t.Errorf("IconFor(%q) = %s, want %s", status, got, want)
		}
	}
}

func TestRenderResult(t *testing.T) {
	r := analysis.Result{
		PlantType:       "Tomate",
		HealthStatus:    "Requiere Atención",
		Confidence:      82,
		Pigmentation:    &analysis.Pigmentation{LeafColor: "verde pálido", Indicators: analysis.StringList{"clorosis leve", "manchas"}},
		Diagnosis:       "Deficiencia de nitrógeno",
		Recommendations: "Aplicar fertilizante",
		Issues:          []string{"clorosis"},
	}
	var buf bytes.Buffer
	if err := RenderResult(&buf, r, Style{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Tomate", "Requiere Atención", "Confianza: 82%", "verde pálido", "Indicadores: clorosis leve, manchas", "Deficiencia de nitrógeno", "Aplicar fertilizante", "• clorosis"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("plain style must not emit ANSI codes")
	}
	if strings.Contains(out, "[clorosis") {
		t.Errorf("indicators printed as a Go slice:\n%s", out)
	}
}

func TestRenderResultOptionalSections(t *testing.T) {
	var buf bytes.Buffer
	RenderResult(&buf, analysis.Result{PlantType: "Rosa", HealthStatus: "Saludable"}, Style{})
	out := buf.String()
	if strings.Contains(out, "Pigmentación") || strings.Contains(out, "Problemas") {
		t.Errorf("optional sections rendered:\n%s", out)
	}
}

func TestRenderHistory(t *testing.T) {
	at := time.Date(2026, 5, 4, 13, 7, 0, 0, time.UTC)
	recs := []*analysis.Record{
		{ID: "b", CreatedAt: at, PlantType: "Maíz", HealthStatus: "Enferma", Confidence: 70},
		{ID: "a", CreatedAt: at.Add(-time.Hour), PlantType: "Rosa", HealthStatus: "Saludable", Confidence: 90},
	}
	var buf bytes.Buffer
	if err := RenderHistory(&buf, recs, time.UTC, Style{Color: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Index(out, "Maíz") > strings.Index(out, "Rosa") {
		t.Error("records must keep the given order")
	}
	if !strings.Contains(out, "04/05/2026 13:07") {
		t.Errorf("timestamp missing:\n%s", out)
	}
	if !strings.Contains(out, colorRed+"⚠ Enferma"+colorReset) {
		t.Errorf("negative badge not red:\n%q", out)
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderHistory(&buf, nil, time.UTC, Style{})
	if !strings.Contains(buf.String(), EmptyHistory) {
		t.Errorf("empty state missing: %q", buf.String())
	}
}
