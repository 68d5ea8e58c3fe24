package model

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/resume.v1.schema.json
var resumeSchemaJSON []byte

var (
	resumeSchemaOnce sync.Once
	resumeSchema     *gojsonschema.Schema
	resumeSchemaErr  error
)

// ResumeSchema returns the canonical schema document, for embedding in
// prompts.
func ResumeSchema() string {
	return string(resumeSchemaJSON)
}

func compiledResumeSchema() (*gojsonschema.Schema, error) {
	resumeSchemaOnce.Do(func() {
		resumeSchema, resumeSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resumeSchemaJSON))
	})
	return resumeSchema, resumeSchemaErr
}

// ValidateResumeJSON checks a raw AI reply object against the canonical
// schema and returns one message per violation. Violations are advisory:
// the reply has already been decoded leniently.
func ValidateResumeJSON(doc []byte) ([]string, error) {
	schema, err := compiledResumeSchema()
	if err != nil {
		return nil, fmt.Errorf("compile resume schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, err
	}
	if res.Valid() {
		return nil, nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return msgs, nil
}
