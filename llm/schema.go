package llm

// Schema is the subset of OpenAPI schema accepted by structured-output
// providers. Gemini consumes it directly as responseSchema; providers
// without schema support use it only as a JSON-output hint.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Object builds an object schema from property pairs.
func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: "object", Properties: properties, Required: required}
}

// Array builds an array schema.
func Array(items *Schema) *Schema {
	return &Schema{Type: "array", Items: items}
}

// String builds a string schema.
func String(description string) *Schema {
	return &Schema{Type: "string", Description: description}
}

// Number builds a number schema.
func Number(description string) *Schema {
	return &Schema{Type: "number", Description: description}
}

// Integer builds an integer schema.
func Integer(description string) *Schema {
	return &Schema{Type: "integer", Description: description}
}

// EnumOf builds a string schema restricted to the given values.
func EnumOf(values ...string) *Schema {
	return &Schema{Type: "string", Enum: values}
}
