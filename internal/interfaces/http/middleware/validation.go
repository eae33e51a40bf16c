package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/smallerp/backend/internal/interfaces/http/dto"
)

// ruleMessages maps validator tags to client text. %s is the rule
// parameter; "min" and "max" on strings get a " characters" suffix.
var ruleMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"uuid":     "Invalid UUID format",
	"oneof":    "Must be one of: %s",
	"min":      "Must be at least %s",
	"max":      "Must be at most %s",
	"gt":       "Must be greater than %s",
	"gte":      "Must be greater than or equal to %s",
}

// SetupValidator makes gin's validator report fields by their json name,
// or form name for query structs.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return ""
	})
}

// FormatValidationErrors builds the 400 body for a bind error: one detail
// per failed rule, or ERR_INVALID_JSON when the body did not decode.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return dto.Fail(dto.ErrCodeInvalidJSON, "Malformed request: "+err.Error(), requestID)
	}

	details := make([]dto.ValidationDetail, len(fieldErrs))
	for i, fe := range fieldErrs {
		details[i] = dto.ValidationDetail{Field: fe.Field(), Message: ruleMessage(fe)}
	}
	return dto.Invalid("Request validation failed", requestID, details)
}

func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func ruleMessage(fe validator.FieldError) string {
	msg, ok := ruleMessages[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	msg = strings.Replace(msg, "%s", fe.Param(), 1)
	if (fe.Tag() == "min" || fe.Tag() == "max") && fe.Kind() == reflect.String {
		msg += " characters"
	}
	return msg
}
