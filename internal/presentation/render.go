package presentation

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Style controls terminal decoration.
type Style struct {
	Color bool
}

func (s Style) paint(color, text string) string {
	if !s.Color {
		return text
	}
	return color + text + colorReset
}

func (s Style) badge(status string) string {
	var color string
	switch Classify(status) {
	case Positive:
		color = colorGreen
	case Warning:
		color = colorYellow
	case Negative:
		color = colorRed
	default:
		color = colorGray
	}
	return s.paint(color, glyph(IconFor(status))+" "+status)
}

func glyph(i Icon) string {
	switch i {
	case IconCheck:
		return "✓"
	case IconDroplets:
		return "💧"
	case IconBug:
		return "🐛"
	default:
		return "⚠"
	}
}

// RenderResult writes the analysis card. Pigmentation and issues are shown only
// when present.
func RenderResult(w io.Writer, r analysis.Result, st Style) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", st.paint(colorBold, r.PlantType))
	fmt.Fprintf(&b, "  %s  %s\n", st.badge(r.HealthStatus), confidence(int(r.Confidence)))

	if p := r.Pigmentation; p != nil {
		fmt.Fprintf(&b, "\n%s\n", st.paint(colorBold, "Análisis de Pigmentación"))
		fmt.Fprintf(&b, "  Color de hojas: %s\n", p.LeafColor)
		fmt.Fprintf(&b, "  Indicadores: %s\n", strings.Join(p.Indicators, ", "))
	}

	fmt.Fprintf(&b, "\n%s\n  %s\n", st.paint(colorBold, "Diagnóstico"), r.Diagnosis)
	fmt.Fprintf(&b, "\n%s\n  %s\n", st.paint(colorBold, "Recomendaciones"), r.Recommendations)

	if len(r.Issues) > 0 {
		fmt.Fprintf(&b, "\n%s\n", st.paint(colorBold, "Problemas Detectados"))
		for _, issue := range r.Issues {
			fmt.Fprintf(&b, "  • %s\n", issue)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// EmptyHistory is shown when no analyses were stored yet.
const EmptyHistory = "No hay análisis previos"

// RenderHistory writes one line per record in the given order, times rendered in loc.
func RenderHistory(w io.Writer, records []*analysis.Record, loc *time.Location, st Style) error {
	if loc == nil {
		loc = time.Local
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", st.paint(colorBold, "Historial de Análisis"))
	if len(records) == 0 {
		fmt.Fprintf(&b, "  %s\n", st.paint(colorGray, EmptyHistory))
	}
	for _, rec := range records {
		fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
			st.paint(colorGray, rec.CreatedAt.In(loc).Format("02/01/2006 15:04")),
			st.paint(colorBold, rec.PlantType),
			st.badge(rec.HealthStatus),
			confidence(rec.Confidence),
		)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func confidence(n int) string {
	return fmt.Sprintf("Confianza: %d%%", n)
}
