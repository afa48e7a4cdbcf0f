// Package schema validates encoded result records against the wire schema.
package schema

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed record_schema.json
var recordSchema []byte

// ValidateRecord checks a decoded JSON document against the record schema.
// It returns the list of violations (nil when the document conforms) and an
// error only when validation itself could not run.
func ValidateRecord(doc any) ([]string, error) {
	schemaLoader := gojsonschema.NewBytesLoader(recordSchema)
	docLoader := gojsonschema.NewGoLoader(doc)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("validate record: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs, nil
}
