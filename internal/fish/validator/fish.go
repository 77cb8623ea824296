package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"fishtank/pkg/model"
	"fishtank/pkg/sanitizer"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

// CreateRequest is what a create call must carry. ID is the sanitized name.
type CreateRequest struct {
	Name    string `json:"name" validate:"required"`
	ID      string `json:"id" validate:"required_with=Name,excludesall=./"`
	Creator string `json:"userName" validate:"required"`
	APIKey  string `json:"apiKey" validate:"required"`
}

// NameRequest is what update and delete calls must carry.
type NameRequest struct {
	Name string `json:"name" validate:"required"`
	ID   string `json:"id" validate:"required_with=Name,excludesall=./"`
}

// NewCreateRequest reads the required fields out of raw input. The creator
// is userName, or createdBy when userName is absent or empty.
func NewCreateRequest(fields model.Fields) *CreateRequest {
	creator := fields.String(model.FieldUserName)
	if creator == "" {
		creator = fields.String(model.FieldCreatedBy)
	}
	name := fields.String(model.FieldName)
	return &CreateRequest{
		Name:    name,
		ID:      sanitizer.SanitizeName(name),
		Creator: creator,
		APIKey:  fields.String(model.FieldAPIKey),
	}
}

func NewNameRequest(fields model.Fields) *NameRequest {
	name := fields.String(model.FieldName)
	return &NameRequest{Name: name, ID: sanitizer.SanitizeName(name)}
}

type FishValidator struct {
	validate *validator.Validate
}

func NewFishValidator() *FishValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &FishValidator{validate: v}
}

func (v *FishValidator) ValidateCreate(req *CreateRequest) error {
	return v.check(req)
}

func (v *FishValidator) ValidateName(req *NameRequest) error {
	return v.check(req)
}

func (v *FishValidator) check(req any) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *FishValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		field := err.Field()
		var message string
		switch {
		case field == "id" && err.Tag() == "required_with":
			field = model.FieldName
			message = "must contain characters other than '.' and '/'"
		case field == "id":
			field = model.FieldName
			message = "must not contain '.' or '/'"
		case field == model.FieldUserName && err.Tag() == "required":
			message = "is required (userName or createdBy)"
		case err.Tag() == "required":
			message = "is required"
		default:
			message = fmt.Sprintf("failed %q validation", err.Tag())
		}
		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return validationErrors
}
