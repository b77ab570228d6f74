package domain

import "strings"

// ContactInfo es el lead capturado antes de mostrar el reporte completo.
type ContactInfo struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
}

// Validate devuelve nil o un *ContactValidationError con un mensaje por campo.
// La unica regla sobre el email es que contenga "@".
func (c ContactInfo) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(c.Name) == "" {
		fields["name"] = "Name is required"
	}
	if !strings.Contains(c.Email, "@") {
		fields["email"] = "Valid email is required"
	}
	if strings.TrimSpace(c.CompanyName) == "" {
		fields["company_name"] = "Company name is required"
	}
	if len(fields) > 0 {
		return &ContactValidationError{Fields: fields}
	}
	return nil
}
