package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/aescanero/analysis-api/pkg/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// bodyField names the request body itself in field errors
const bodyField = "body"

// errMalformedBody is returned for bodies that are not exactly one JSON value
var errMalformedBody = errors.New("malformed JSON")

var tagNameOnce sync.Once

// useJSONFieldNames makes validator report fields by their JSON name
func useJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSONStrict binds the request body into obj. The body must be a
// single well-formed UTF-8 JSON value; trailing data is rejected.
// An empty or blank body is passed through so it reports as missing.
func bindJSONStrict(c *gin.Context, obj any) error {
	body, err := c.GetRawData()
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if len(bytes.TrimSpace(body)) > 0 && (!utf8.Valid(body) || !json.Valid(body)) {
		return errMalformedBody
	}
	c.Set(gin.BodyBytesKey, body)
	return c.ShouldBindBodyWith(obj, binding.JSON)
}

// classifyBindError maps a bindJSONStrict error to a validation error.
// It returns nil when the body is not valid JSON at all.
func classifyBindError(err error) *domain.ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]domain.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, domain.FieldError{
				Field:  fe.Field(),
				Reason: fieldReason(fe),
			})
		}
		return &domain.ValidationError{Fields: fields}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return domain.NewValidationError(bodyField, "must be a JSON object")
		}
		return domain.NewValidationError(typeErr.Field, "must be a string")
	}

	// An empty body decodes to a bare io.EOF
	if errors.Is(err, io.EOF) {
		return domain.NewValidationError(bodyField, "required")
	}

	return nil
}

func fieldReason(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "required"
	}
	return "failed " + fe.Tag() + " check"
}
