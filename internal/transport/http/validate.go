package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	// money: a non-negative amount with at most two decimal places.
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return !d.IsNegative() && d.Equal(d.Round(2))
	})
	return v
}

// decodeJSON reads a single JSON object into dst and validates it. On failure
// the error response is already written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return false
	}
	return validateRequest(w, dst)
}

func validateRequest(w http.ResponseWriter, req any) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return false
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "required_without":
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, fmt.Sprintf("%s is required", fe.Field()))
	default:
		writeError(w, http.StatusBadRequest, codeValidationFailed, validationMessage(fe))
	}
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "money":
		return fmt.Sprintf("%s must be a non-negative amount with at most two decimals", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be an RFC 3339 timestamp", fe.Field())
	case "excluded_with":
		return fmt.Sprintf("%s cannot be combined with %s", fe.Field(), fe.Param())
	case "gt", "gte", "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// pathSegments splits a request path and matches it against pattern, where
// "*" stands for one non-empty segment. It returns the wildcard values.
func pathSegments(path, pattern string) ([]string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	if len(parts) != len(want) {
		return nil, false
	}
	var params []string
	for i, w := range want {
		if w == "*" {
			if parts[i] == "" {
				return nil, false
			}
			params = append(params, parts[i])
			continue
		}
		if parts[i] != w {
			return nil, false
		}
	}
	return params, true
}
