// Package main generates the upload manifest JSON schema embedded in
// pkg/project.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/Sumatoshi-tech/codeloom/pkg/project"
)

// Schema is the subset of JSON Schema the manifest needs. Field order
// fixes the key order of the generated document.
type Schema struct {
	Schema               string             `json:"$schema,omitempty"`
	Title                string             `json:"title,omitempty"`
	Description          string             `json:"description,omitempty"`
	Type                 string             `json:"type,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	MinLength            *int               `json:"minLength,omitempty"`
	Minimum              *int               `json:"minimum,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

var outputPath string

func main() {
	flag.StringVar(&outputPath, "o", "pkg/project/manifest_schema.json", "Output path for the manifest schema")
	flag.Parse()

	schema := manifestSchema()

	if err := writeSchema(outputPath, schema); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing manifest schema: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outputPath)
}

// manifestSchema reflects over the manifest types and overlays the
// constraints reflection cannot see: only path is required per file,
// paths must be non-empty, sizes non-negative, and unknown keys are
// rejected.
func manifestSchema() *Schema {
	props, required := objectSchema(reflect.TypeOf(project.Manifest{}))

	schema := &Schema{
		Schema:               "http://json-schema.org/draft-07/schema#",
		Title:                "codeloom upload manifest",
		Description:          "File list exchanged with the upload collaborator.",
		Type:                 "object",
		Required:             required,
		Properties:           props,
		AdditionalProperties: boolPtr(false),
	}

	items := props["files"].Items
	items.Required = []string{"path"}
	items.AdditionalProperties = boolPtr(false)
	items.Properties["path"].MinLength = intPtr(1)
	items.Properties["size"].Minimum = intPtr(0)

	return schema
}

// objectSchema maps a struct's json-tagged fields to schema properties.
// Fields without an omitempty option become required.
func objectSchema(t reflect.Type) (map[string]*Schema, []string) {
	props := make(map[string]*Schema)

	var required []string

	for i := range t.NumField() {
		name, omitempty, ok := fieldJSONName(t.Field(i))
		if !ok {
			continue
		}

		props[name] = typeSchema(t.Field(i).Type)

		if !omitempty {
			required = append(required, name)
		}
	}

	return props, required
}

// fieldJSONName parses a field's json tag. ok is false when the field
// is untagged or explicitly skipped.
func fieldJSONName(field reflect.StructField) (name string, omitempty, ok bool) {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return "", false, false
	}

	name, opts, _ := strings.Cut(tag, ",")

	return name, strings.Contains(opts, "omitempty"), true
}

func typeSchema(t reflect.Type) *Schema {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Slice:
		return &Schema{Type: "array", Items: typeSchema(t.Elem())}

	case reflect.Struct:
		props, required := objectSchema(t)

		return &Schema{Type: "object", Required: required, Properties: props}

	default:
		return &Schema{Type: "object"}
	}
}

func writeSchema(path string, schema *Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest schema: %w", err)
	}

	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }
