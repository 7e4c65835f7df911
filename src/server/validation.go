package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"volatility-observer/src/helpers"
)

// bindingError renders a binding failure as a single readable line.
func bindingError(err error) *helpers.ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return helpers.NewValidationError(err.Error())
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := jsonFieldName(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s: field required", field))
		default:
			parts = append(parts, fmt.Sprintf("%s: failed %s", field, fe.Tag()))
		}
	}
	return helpers.NewValidationError(strings.Join(parts, "; "))
}

func jsonFieldName(field string) string {
	switch field {
	case "StartDate":
		return "start_date"
	case "EndDate":
		return "end_date"
	default:
		return strings.ToLower(field)
	}
}
