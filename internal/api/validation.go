package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

var requestValidator = validator.New()

// decodeAndValidate parses a JSON body strictly (unknown fields and trailing
// garbage both fail) and runs the struct's validate tags. The returned error
// text is safe to hand to clients.
func decodeAndValidate(body io.Reader, dst any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body")
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON body")
	}

	if err := requestValidator.Struct(dst); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			first := validationErrors[0]
			field := strings.ToLower(first.Field()[:1]) + first.Field()[1:]
			switch first.Tag() {
			case "required", "required_without":
				return fmt.Errorf("%s is required", field)
			case "min", "max":
				return fmt.Errorf("invalid %s length", field)
			case "gte", "gt":
				return fmt.Errorf("%s is out of range", field)
			case "gtfield":
				return fmt.Errorf("%s must be after %s", field, strings.ToLower(first.Param()[:1])+first.Param()[1:])
			case "url":
				return fmt.Errorf("invalid %s format", field)
			case "uuid4":
				return fmt.Errorf("invalid %s", field)
			case "base64":
				return fmt.Errorf("invalid %s encoding", field)
			default:
				return fmt.Errorf("invalid %s", field)
			}
		}

		return fmt.Errorf("invalid request payload")
	}

	return nil
}
