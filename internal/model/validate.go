package model

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"talentflow/internal/domain"
)

//go:embed assessment.schema.json
var assessmentSchema []byte

// ValidateAssessment checks an assessment document against the JSON schema.
// The schema enforces the type-conditional fields: choice questions must
// carry options, and numeric bounds are rejected on non-numeric questions.
func ValidateAssessment(a *domain.Assessment) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewBytesLoader(assessmentSchema)
	docLoader := gojsonschema.NewBytesLoader(doc)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return &domain.ValidationError{Field: "assessment", Message: fmt.Sprintf("schema validation failed: %s", msgs)}
}
