package domain

import (
	"slices"
	"strings"
)

// Catalogos de opciones del formulario de evaluacion.
var (
	Industries = []string{"SaaS", "Ecommerce", "Agency", "Fintech", "Healthcare", "Manufacturing", "Other"}

	CompanySizes = []string{"1-10", "11-50", "51-200", "201-500", "500+"}

	RevenueRanges = []string{"Pre-revenue", "$1k - $10k", "$10k - $50k", "$50k - $200k", "$200k - $1M", "$1M+"}

	Challenges = []string{
		"Low Traffic / Awareness",
		"Poor Lead Quality",
		"Low Conversion Rates",
		"High Customer Churn",
		"Operational Inefficiency",
		"Hiring / Team Scaling",
	}

	MarketingChannels = []string{
		"SEO / Content",
		"Paid Ads (PPC)",
		"Cold Email",
		"Social Media",
		"Events / Webinars",
		"Referrals",
		"Partnerships",
	}
)

// AssessmentSteps es la cantidad de pasos del formulario.
const AssessmentSteps = 4

// Nombres de campo aceptados en actualizaciones parciales del perfil.
const (
	FieldIndustry         = "industry"
	FieldRole             = "role"
	FieldCompanySize      = "company_size"
	FieldRevenueRange     = "revenue_range"
	FieldPrimaryChallenge = "primary_challenge"
	FieldMarketingChannel = "marketing_channel"
)

// BusinessProfile acumula los datos del negocio a lo largo de los cuatro pasos.
type BusinessProfile struct {
	Industry          string   `json:"industry"`
	Role              string   `json:"role"`
	CompanySize       string   `json:"company_size"`
	RevenueRange      string   `json:"revenue_range"`
	PrimaryChallenge  string   `json:"primary_challenge"`
	MarketingChannels []string `json:"marketing_channels"`
}

// StepComplete indica si el paso (1..4) tiene todos sus campos cargados.
func (p BusinessProfile) StepComplete(step int) bool {
	switch step {
	case 1:
		return p.Industry != "" && p.Role != ""
	case 2:
		return p.CompanySize != "" && p.RevenueRange != ""
	case 3:
		return p.PrimaryChallenge != ""
	case 4:
		return len(p.MarketingChannels) > 0
	default:
		return false
	}
}

// IsComplete exige los cuatro pasos; es la precondicion para pedir la auditoria.
func (p BusinessProfile) IsComplete() bool {
	for step := 1; step <= AssessmentSteps; step++ {
		if !p.StepComplete(step) {
			return false
		}
	}
	return true
}

// Clone devuelve una copia profunda; se usa para congelar el perfil al enviarlo.
func (p BusinessProfile) Clone() BusinessProfile {
	out := p
	out.MarketingChannels = slices.Clone(p.MarketingChannels)
	if out.MarketingChannels == nil {
		out.MarketingChannels = []string{}
	}
	return out
}

// ToggleChannel agrega el canal si no estaba y lo quita si ya estaba.
func (p *BusinessProfile) ToggleChannel(channel string) {
	if idx := slices.Index(p.MarketingChannels, channel); idx >= 0 {
		p.MarketingChannels = slices.Delete(p.MarketingChannels, idx, idx+1)
		return
	}
	p.MarketingChannels = append(p.MarketingChannels, channel)
}

// SetField aplica una actualizacion de campo validando contra los catalogos.
// El rol es texto libre; el resto debe pertenecer a su catalogo.
func (p *BusinessProfile) SetField(field, value string) error {
	switch field {
	case FieldIndustry:
		return setFromCatalog(&p.Industry, field, value, Industries)
	case FieldRole:
		p.Role = strings.TrimSpace(value)
		return nil
	case FieldCompanySize:
		return setFromCatalog(&p.CompanySize, field, value, CompanySizes)
	case FieldRevenueRange:
		return setFromCatalog(&p.RevenueRange, field, value, RevenueRanges)
	case FieldPrimaryChallenge:
		return setFromCatalog(&p.PrimaryChallenge, field, value, Challenges)
	case FieldMarketingChannel:
		if !slices.Contains(MarketingChannels, value) {
			return &FieldError{Field: field, Value: value}
		}
		p.ToggleChannel(value)
		return nil
	default:
		return &FieldError{Field: field, Value: value}
	}
}

func setFromCatalog(dst *string, field, value string, catalog []string) error {
	// Vacio limpia la seleccion, igual que la opcion "Select..." del formulario.
	if value == "" {
		*dst = ""
		return nil
	}
	if !slices.Contains(catalog, value) {
		return &FieldError{Field: field, Value: value}
	}
	*dst = value
	return nil
}
