package dto

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const paymentMethodsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["pix", "mbway", "credit_card"],
  "additionalProperties": false,
  "definitions": {
    "instant": {
      "type": "object",
      "required": ["enabled", "discount_percentage"],
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "discount_percentage": {"type": "number", "minimum": 0, "maximum": 100}
      }
    }
  },
  "properties": {
    "pix": {"$ref": "#/definitions/instant"},
    "mbway": {"$ref": "#/definitions/instant"},
    "credit_card": {
      "type": "object",
      "required": ["enabled", "min_installment_value", "interest_mode"],
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "min_installment_value": {"type": "number", "minimum": 0},
        "interest_mode": {"enum": ["absorbed", "passed_to_client"]}
      }
    }
  }
}`

const globalSettingsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["manual_approval_enabled"],
  "properties": {
    "manual_approval_enabled": {"type": "boolean"}
  }
}`

// SchemaValidator checks admin-submitted settings documents.
type SchemaValidator struct {
	schema *gojsonschema.Schema
}

func NewPaymentMethodsValidator() *SchemaValidator {
	return mustValidator(paymentMethodsSchema)
}

func NewGlobalSettingsValidator() *SchemaValidator {
	return mustValidator(globalSettingsSchema)
}

func mustValidator(schema string) *SchemaValidator {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("compile settings schema: %v", err))
	}
	return &SchemaValidator{schema: s}
}

// Validate returns one ValidationError per schema violation. A document that
// is not JSON at all yields an error.
func (v *SchemaValidator) Validate(body []byte) ([]ValidationError, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	var errs []ValidationError
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return errs, nil
}
