package service

import (
	"fmt"
	"strings"

	"growthmind/internal/domain"
	"growthmind/internal/llm"
)

// AuditRequestBuilder arma el prompt y el schema de salida de la auditoria.
// Es una transformacion pura; el llamador garantiza que el perfil este completo.
type AuditRequestBuilder struct{}

// Build devuelve el request listo para el cliente LLM.
func (b AuditRequestBuilder) Build(profile domain.BusinessProfile) llm.Request {
	return llm.Request{
		Prompt: b.BuildPrompt(profile),
		Schema: AuditOutputSchema(),
	}
}

// BuildPrompt incrusta cada campo del perfil tal cual lo cargo el usuario.
func (AuditRequestBuilder) BuildPrompt(profile domain.BusinessProfile) string {
	var sb strings.Builder
	sb.WriteString("Act as a senior business growth consultant. Analyze the following business profile and generate a comprehensive growth audit and strategy.\n\n")
	sb.WriteString("Business Profile:\n")
	fmt.Fprintf(&sb, "- Industry: %s\n", profile.Industry)
	fmt.Fprintf(&sb, "- Respondent Role: %s\n", profile.Role)
	fmt.Fprintf(&sb, "- Company Size: %s employees\n", profile.CompanySize)
	fmt.Fprintf(&sb, "- Monthly Revenue Range: %s\n", profile.RevenueRange)
	fmt.Fprintf(&sb, "- Primary Challenge: %s\n", profile.PrimaryChallenge)
	fmt.Fprintf(&sb, "- Active Marketing Channels: %s\n\n", strings.Join(profile.MarketingChannels, ", "))

	sb.WriteString("Your task is to:\n")
	sb.WriteString("1. Calculate a hypothetical \"Growth Health Score\" (0-100) based on the challenge vs. resources implied.\n")
	sb.WriteString("2. Identify key strengths and weaknesses relative to the industry.\n")
	sb.WriteString("3. Provide 3 specific, actionable recommendations to overcome the primary challenge.\n")
	sb.WriteString("4. Generate hypothetical data for a \"Current vs Potential Revenue\" projection chart over the next 4 quarters.\n")
	fmt.Fprintf(&sb, "5. Generate \"Efficiency Metrics\" scores (0-100) for 5 categories: %s based on the industry norms vs the challenge.\n\n",
		quoteAll(domain.EfficiencyCategories))
	sb.WriteString("Be realistic but optimistic. The tone should be professional, insightful, and encouraging.\n")
	sb.WriteString("Respond ONLY with a JSON object matching the provided schema.")
	return sb.String()
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}

// AuditOutputSchema es la autoridad sobre la forma valida de la respuesta.
// Se construye en cada llamada para que nadie comparta el arbol mutable.
func AuditOutputSchema() *llm.Schema {
	str := func(desc string) *llm.Schema { return &llm.Schema{Type: llm.TypeString, Description: desc} }
	level := func() *llm.Schema { return &llm.Schema{Type: llm.TypeString, Enum: append([]string(nil), domain.Levels...)} }

	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"overallScore":     {Type: llm.TypeInteger, Description: "Overall growth health score 0-100"},
			"executiveSummary": str("A 2-3 sentence high-level summary of the audit."),
			"strengths": {
				Type:        llm.TypeArray,
				Description: "List of 3 perceived strengths.",
				Items:       str(""),
			},
			"weaknesses": {
				Type:        llm.TypeArray,
				Description: "List of 3 perceived weaknesses.",
				Items:       str(""),
			},
			"recommendations": {
				Type: llm.TypeArray,
				Items: &llm.Schema{
					Type: llm.TypeObject,
					Properties: map[string]*llm.Schema{
						"title":       str(""),
						"description": str(""),
						"impact":      level(),
						"effort":      level(),
					},
					Required: []string{"title", "description", "impact", "effort"},
				},
			},
			"revenueProjection": {
				Type:        llm.TypeArray,
				Description: "Data for 4 quarters showing current trajectory vs potential with AI implementation.",
				Items: &llm.Schema{
					Type: llm.TypeObject,
					Properties: map[string]*llm.Schema{
						"name":      str("e.g., 'Q1', 'Q2'"),
						"current":   {Type: llm.TypeNumber},
						"potential": {Type: llm.TypeNumber},
					},
					Required: []string{"name", "current", "potential"},
				},
			},
			"efficiencyMetrics": {
				Type:        llm.TypeArray,
				Description: "Scores for radar chart analysis.",
				Items: &llm.Schema{
					Type: llm.TypeObject,
					Properties: map[string]*llm.Schema{
						"category": str(""),
						"score":    {Type: llm.TypeInteger},
					},
					Required: []string{"category", "score"},
				},
			},
		},
		Required: []string{
			"overallScore",
			"executiveSummary",
			"strengths",
			"weaknesses",
			"recommendations",
			"revenueProjection",
			"efficiencyMetrics",
		},
	}
}
