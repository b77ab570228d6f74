package domain

import "slices"

// Level es el valor permitido para impacto y esfuerzo de una recomendacion.
type Level string

const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// Levels en el orden en que se declaran en el schema de salida.
var Levels = []string{string(LevelHigh), string(LevelMedium), string(LevelLow)}

// Categorias esperadas para el radar de eficiencia.
var EfficiencyCategories = []string{"Acquisition", "Retention", "Tech Stack", "Team", "Brand"}

// AuditResult es el reporte generado; no se modifica una vez producido.
// Los tags siguen el contrato JSON que devuelve el modelo.
type AuditResult struct {
	OverallScore      int                `json:"overallScore"`
	ExecutiveSummary  string             `json:"executiveSummary"`
	Strengths         []string           `json:"strengths"`
	Weaknesses        []string           `json:"weaknesses"`
	Recommendations   []Recommendation   `json:"recommendations"`
	RevenueProjection []ChartDataPoint   `json:"revenueProjection"`
	EfficiencyMetrics []EfficiencyMetric `json:"efficiencyMetrics"`
}

type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      Level  `json:"impact"`
	Effort      Level  `json:"effort"`
}

// ChartDataPoint es un trimestre de la proyeccion actual vs potencial.
type ChartDataPoint struct {
	Name      string  `json:"name"`
	Current   float64 `json:"current"`
	Potential float64 `json:"potential"`
}

type EfficiencyMetric struct {
	Category string `json:"category"`
	Score    int    `json:"score"` // 0-100
}

// Clone copia todos los slices para que el llamador no comparta memoria con el original.
func (a AuditResult) Clone() AuditResult {
	out := a
	out.Strengths = slices.Clone(a.Strengths)
	out.Weaknesses = slices.Clone(a.Weaknesses)
	out.Recommendations = slices.Clone(a.Recommendations)
	out.RevenueProjection = slices.Clone(a.RevenueProjection)
	out.EfficiencyMetrics = slices.Clone(a.EfficiencyMetrics)
	return out
}

// ScoreBand clasifica el puntaje como en el tablero de resultados.
func ScoreBand(score int) string {
	switch {
	case score >= 80:
		return "strong"
	case score >= 60:
		return "moderate"
	default:
		return "weak"
	}
}
