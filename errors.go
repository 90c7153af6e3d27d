package xsdgen

import (
	"errors"
	"fmt"
)

// ErrNoSchemaRoot is wrapped by SchemaError when the document has no schema element.
var ErrNoSchemaRoot = errors.New("no schema element found")

// SchemaError reports an XSD document that could not be turned into a
// ParsedSchema: either the XML is malformed or the schema root is missing.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to parse XSD schema: %s", e.Reason)
	}
	if e.Reason == "" {
		return fmt.Sprintf("failed to parse XSD schema: %v", e.Err)
	}
	return fmt.Sprintf("failed to parse XSD schema: %s: %v", e.Reason, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// EmptySchemaError is returned by generation when the schema declares no root elements.
type EmptySchemaError struct{}

func (e *EmptySchemaError) Error() string {
	return "invalid schema: no elements found"
}
