package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"

	"growthmind/internal/domain"
	"growthmind/internal/llm"
)

var (
	errEmptyPayload    = errors.New("empty llm payload")
	errSchemaViolation = errors.New("llm payload violates output schema")
)

// parseAuditPayload limpia, valida contra el schema y decodifica la respuesta.
func parseAuditPayload(raw string, schema *llm.Schema) (domain.AuditResult, error) {
	cleaned := cleanLLMJSONResponse(raw)
	if cleaned == "" {
		return domain.AuditResult{}, errEmptyPayload
	}

	generic, err := decodeSingleJSON(cleaned)
	if err != nil {
		return domain.AuditResult{}, fmt.Errorf("decode llm payload: %w", err)
	}
	if err := validateAgainstSchema(generic, schema, "$"); err != nil {
		return domain.AuditResult{}, err
	}

	var result domain.AuditResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return domain.AuditResult{}, fmt.Errorf("decode audit result: %w", err)
	}
	return result, nil
}

// validateAgainstSchema recorre el valor decodificado (con json.Number) y
// rechaza campos requeridos ausentes, enums fuera de rango y tipos incorrectos.
// Los campos extra se ignoran.
func validateAgainstSchema(value any, schema *llm.Schema, path string) error {
	if schema == nil {
		return nil
	}
	switch schema.Type {
	case llm.TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return violation(path, "expected object")
		}
		for _, name := range schema.Required {
			if _, present := obj[name]; !present {
				return violation(path+"."+name, "required field missing")
			}
		}
		names := make([]string, 0, len(schema.Properties))
		for name := range schema.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v, present := obj[name]
			if !present {
				continue
			}
			if err := validateAgainstSchema(v, schema.Properties[name], path+"."+name); err != nil {
				return err
			}
		}
	case llm.TypeArray:
		arr, ok := value.([]any)
		if !ok {
			return violation(path, "expected array")
		}
		for i, item := range arr {
			if err := validateAgainstSchema(item, schema.Items, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case llm.TypeString:
		s, ok := value.(string)
		if !ok {
			return violation(path, "expected string")
		}
		if len(schema.Enum) > 0 && !slices.Contains(schema.Enum, s) {
			return violation(path, fmt.Sprintf("value %q not in %v", s, schema.Enum))
		}
	case llm.TypeInteger:
		n, ok := value.(json.Number)
		if !ok {
			return violation(path, "expected integer")
		}
		if _, err := n.Int64(); err != nil {
			return violation(path, "expected integer, got "+n.String())
		}
	case llm.TypeNumber:
		n, ok := value.(json.Number)
		if !ok {
			return violation(path, "expected number")
		}
		if _, err := n.Float64(); err != nil {
			return violation(path, "expected number, got "+n.String())
		}
	case llm.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return violation(path, "expected boolean")
		}
	}
	return nil
}

func violation(path, msg string) error {
	return fmt.Errorf("%w: %s: %s", errSchemaViolation, path, msg)
}
