package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"growthmind/internal/domain"
)

type scenarioFile struct {
	Scenarios []scenarioEntry `yaml:"scenarios"`
}

type scenarioEntry struct {
	Name     string `yaml:"name"`
	Expected string `yaml:"expected"`
	Profile  struct {
		Industry          string   `yaml:"industry"`
		Role              string   `yaml:"role"`
		CompanySize       string   `yaml:"company_size"`
		RevenueRange      string   `yaml:"revenue_range"`
		PrimaryChallenge  string   `yaml:"primary_challenge"`
		MarketingChannels []string `yaml:"marketing_channels"`
	} `yaml:"profile"`
}

func loadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseScenarios(data)
}

// parseScenarios valida cada perfil contra los catalogos igual que el formulario.
func parseScenarios(data []byte) ([]Scenario, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios defined")
	}

	out := make([]Scenario, 0, len(file.Scenarios))
	for i, entry := range file.Scenarios {
		var p domain.BusinessProfile
		fields := []struct{ field, value string }{
			{domain.FieldIndustry, entry.Profile.Industry},
			{domain.FieldRole, entry.Profile.Role},
			{domain.FieldCompanySize, entry.Profile.CompanySize},
			{domain.FieldRevenueRange, entry.Profile.RevenueRange},
			{domain.FieldPrimaryChallenge, entry.Profile.PrimaryChallenge},
		}
		for _, f := range fields {
			if err := p.SetField(f.field, f.value); err != nil {
				return nil, fmt.Errorf("scenario %d (%s): %w", i+1, entry.Name, err)
			}
		}
		for _, ch := range entry.Profile.MarketingChannels {
			if err := p.SetField(domain.FieldMarketingChannel, ch); err != nil {
				return nil, fmt.Errorf("scenario %d (%s): %w", i+1, entry.Name, err)
			}
		}
		if !p.IsComplete() {
			return nil, fmt.Errorf("scenario %d (%s): profile incomplete", i+1, entry.Name)
		}

		name := entry.Name
		if name == "" {
			name = fmt.Sprintf("escenario %d", i+1)
		}
		out = append(out, Scenario{Name: name, Profile: p, Expected: entry.Expected})
	}
	return out, nil
}

func defaultScenarios() []Scenario {
	return []Scenario{
		{
			Name: "SaaS temprano sin trafico",
			Profile: domain.BusinessProfile{
				Industry: "SaaS", Role: "CEO", CompanySize: "1-10", RevenueRange: "$1k - $10k",
				PrimaryChallenge: "Low Traffic / Awareness", MarketingChannels: []string{"SEO / Content"},
			},
			Expected: "Recomendaciones de contenido y visibilidad",
		},
		{
			Name: "Ecommerce con churn",
			Profile: domain.BusinessProfile{
				Industry: "Ecommerce", Role: "Head of Growth", CompanySize: "51-200", RevenueRange: "$200k - $1M",
				PrimaryChallenge: "High Customer Churn", MarketingChannels: []string{"Paid Ads (PPC)", "Social Media"},
			},
			Expected: "Foco en retencion y onboarding",
		},
		{
			Name: "Agencia con leads malos",
			Profile: domain.BusinessProfile{
				Industry: "Agency", Role: "Founder", CompanySize: "11-50", RevenueRange: "$50k - $200k",
				PrimaryChallenge: "Poor Lead Quality", MarketingChannels: []string{"Cold Email", "Referrals"},
			},
			Expected: "Calificacion y scoring de leads",
		},
		{
			Name: "Manufactura ineficiente",
			Profile: domain.BusinessProfile{
				Industry: "Manufacturing", Role: "COO", CompanySize: "500+", RevenueRange: "$1M+",
				PrimaryChallenge: "Operational Inefficiency", MarketingChannels: []string{"Events / Webinars", "Partnerships"},
			},
			Expected: "Automatizacion de procesos",
		},
	}
}
