package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"value,omitempty"`
}

var validate = validator.New()

func init() {
	// Report fields by their JSON name so errors line up with request bodies.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid"}}
		}
		for _, err := range verrs {
			errors = append(errors, &ErrorResponse{
				FailedField: err.Field(),
				Tag:         err.Tag(),
				Value:       err.Param(),
			})
		}
	}
	return errors
}

// Missing returns the fields that failed a "required" rule.
func Missing(errs []*ErrorResponse) []string {
	var fields []string
	for _, e := range errs {
		if e.Tag == "required" || e.Tag == "uuid_required" {
			fields = append(fields, e.FailedField)
		}
	}
	return fields
}

// Fields returns every failed field once, in order.
func Fields(errs []*ErrorResponse) []string {
	seen := make(map[string]bool, len(errs))
	var fields []string
	for _, e := range errs {
		if !seen[e.FailedField] {
			seen[e.FailedField] = true
			fields = append(fields, e.FailedField)
		}
	}
	return fields
}
