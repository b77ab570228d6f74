package main

import (
	"fmt"
	"slices"
	"strings"

	"growthmind/internal/domain"
)

// Scenario es un perfil de prueba con la expectativa que deberia reflejar la auditoria.
type Scenario struct {
	Name     string
	Profile  domain.BusinessProfile
	Expected string
}

// checkAudit aplica chequeos heuristicos sobre una auditoria ya validada por schema.
// El schema garantiza la forma; aca se revisa el contenido.
func checkAudit(audit domain.AuditResult) []string {
	var issues []string

	if audit.OverallScore < 0 || audit.OverallScore > 100 {
		issues = append(issues, fmt.Sprintf("overallScore fuera de rango: %d", audit.OverallScore))
	}
	if strings.TrimSpace(audit.ExecutiveSummary) == "" {
		issues = append(issues, "executiveSummary vacio")
	}
	if n := len(audit.Strengths); n != 3 {
		issues = append(issues, fmt.Sprintf("se esperaban 3 fortalezas, hay %d", n))
	}
	if n := len(audit.Weaknesses); n != 3 {
		issues = append(issues, fmt.Sprintf("se esperaban 3 debilidades, hay %d", n))
	}
	if n := len(audit.Recommendations); n != 3 {
		issues = append(issues, fmt.Sprintf("se esperaban 3 recomendaciones, hay %d", n))
	}
	for i, rec := range audit.Recommendations {
		if strings.TrimSpace(rec.Title) == "" {
			issues = append(issues, fmt.Sprintf("recomendacion %d sin titulo", i+1))
		}
	}

	if n := len(audit.RevenueProjection); n != 4 {
		issues = append(issues, fmt.Sprintf("se esperaban 4 trimestres, hay %d", n))
	}
	for _, p := range audit.RevenueProjection {
		if p.Potential < p.Current {
			issues = append(issues, fmt.Sprintf("%s: potencial %.1f menor al actual %.1f", p.Name, p.Potential, p.Current))
		}
	}

	var categories []string
	for _, m := range audit.EfficiencyMetrics {
		categories = append(categories, m.Category)
		if m.Score < 0 || m.Score > 100 {
			issues = append(issues, fmt.Sprintf("metrica %s fuera de rango: %d", m.Category, m.Score))
		}
	}
	for _, want := range domain.EfficiencyCategories {
		if !slices.Contains(categories, want) {
			issues = append(issues, fmt.Sprintf("falta la categoria %q", want))
		}
	}

	return issues
}

// mentionsChallenge detecta si alguna recomendacion o el resumen tocan el desafio declarado.
func mentionsChallenge(audit domain.AuditResult, challenge string) bool {
	keywords := challengeKeywords(challenge)
	if len(keywords) == 0 {
		return true
	}
	texts := []string{audit.ExecutiveSummary}
	for _, rec := range audit.Recommendations {
		texts = append(texts, rec.Title, rec.Description)
	}
	corpus := strings.ToLower(strings.Join(texts, " "))
	for _, kw := range keywords {
		if strings.Contains(corpus, kw) {
			return true
		}
	}
	return false
}

func challengeKeywords(challenge string) []string {
	switch challenge {
	case "Low Traffic / Awareness":
		return []string{"traffic", "awareness", "seo", "content", "visibility", "brand"}
	case "Poor Lead Quality":
		return []string{"lead", "qualif", "scoring", "icp"}
	case "Low Conversion Rates":
		return []string{"conversion", "landing", "funnel", "a/b"}
	case "High Customer Churn":
		return []string{"churn", "retention", "onboarding", "customer success"}
	case "Operational Inefficiency":
		return []string{"automat", "process", "efficien", "workflow"}
	case "Hiring / Team Scaling":
		return []string{"hiring", "hire", "team", "talent", "recruit"}
	default:
		return nil
	}
}
