// Package schema validates request bodies against embedded JSON schemas.
//
// Handlers validate the RAW body bytes before unmarshalling into Go
// structs, so a payload with a wrong type, a missing required field, or an
// unexpected extra property is rejected with a 400 that names every
// violation — the services behind the handlers can then assume
// well-shaped input.
package schema

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/tabrown76/Capstone2Backend/internal/apperror"
)

// Schema names, matching the .json files under schemas/.
const (
	Token          = "token"
	UserRegister   = "user_register"
	GoogleRegister = "google_register"
	UserUpdate     = "user_update"
	Ingredients    = "ingredients"
	RecipeNew      = "recipe_new"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator holds the compiled schemas. Compile once at startup — schema
// compilation is not free and the documents never change at runtime.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles every embedded schema. A malformed schema file is a
// programming error and fails server startup.
func NewValidator() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("schema: reading embedded schemas: %w", err)
	}

	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(entries))}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".json")

		raw, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("schema: reading %s: %w", entry.Name(), err)
		}

		compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("schema: compiling %s: %w", entry.Name(), err)
		}

		v.schemas[name] = compiled
	}

	return v, nil
}

// Validate checks a JSON document against the named schema.
//
// Returns nil when the document conforms; an apperror validation failure
// listing every violation otherwise. An unknown schema name is a
// programming error and returns a plain error.
func (v *Validator) Validate(name string, document []byte) error {
	compiled, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("schema: unknown schema %q", name)
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		// Not even parseable JSON
		return apperror.ValidationFailed("", "request body is not valid JSON")
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		messages = append(messages, desc.String())
	}

	return apperror.ValidationFailed("", strings.Join(messages, "; "))
}
