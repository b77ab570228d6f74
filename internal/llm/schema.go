package llm

// SchemaType es el tipo JSON de un nodo del schema de salida.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeInteger SchemaType = "integer"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
)

// Schema describe la forma exacta que debe tener la respuesta del modelo.
// Es neutral al proveedor: cada cliente lo traduce a su formato nativo.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Request es una llamada unica, no streaming, al modelo generativo.
type Request struct {
	Prompt string
	Schema *Schema
}
