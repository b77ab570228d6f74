package service

import "growthmind/internal/domain"

var fallbackAudit = domain.AuditResult{
	OverallScore:     72,
	ExecutiveSummary: "While your foundation is strong, significant opportunities exist in optimizing your conversion funnel. Our analysis suggests your current tech stack may be underutilized.",
	Strengths:        []string{"Strong Market Fit", "Experienced Leadership", "Clear Value Prop"},
	Weaknesses:       []string{"Customer Acquisition Cost", "Automated Nurturing", "Data Silos"},
	Recommendations: []domain.Recommendation{
		{Title: "Implement AI Lead Scoring", Description: "Prioritize high-intent leads to reduce sales cycle time.", Impact: domain.LevelHigh, Effort: domain.LevelMedium},
		{Title: "Optimize Landing Page UX", Description: "A/B test value propositions to improve conversion rates.", Impact: domain.LevelMedium, Effort: domain.LevelLow},
		{Title: "Automate Email Sequences", Description: "Deploy behavioral trigger emails for improved retention.", Impact: domain.LevelHigh, Effort: domain.LevelMedium},
	},
	RevenueProjection: []domain.ChartDataPoint{
		{Name: "Q1", Current: 50, Potential: 65},
		{Name: "Q2", Current: 55, Potential: 80},
		{Name: "Q3", Current: 58, Potential: 110},
		{Name: "Q4", Current: 60, Potential: 145},
	},
	EfficiencyMetrics: []domain.EfficiencyMetric{
		{Category: "Acquisition", Score: 65},
		{Category: "Retention", Score: 80},
		{Category: "Tech Stack", Score: 45},
		{Category: "Team", Score: 90},
		{Category: "Brand", Score: 70},
	},
}

// FallbackAudit devuelve una copia del reporte fijo que se muestra cuando la IA falla.
func FallbackAudit() domain.AuditResult {
	return fallbackAudit.Clone()
}
