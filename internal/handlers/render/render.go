package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// Report on 'TagName' json tag instead of struct field name
	// Look at documentation of 'RegisterTagNameFunc' for more details
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		// skip if tag key says it should be ignored
		if name == "-" {
			return ""
		}
		return name
	})
}

type Struct any

// Success envelope every 2xx response is wrapped into
type SuccessResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// Error envelope: success is always false and the errors list never null
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// JSON renders data in the success envelope with http.StatusOK
func JSON(w http.ResponseWriter, data any, message string) {
	JSONWithStatus(w, data, message, http.StatusOK)
}

// JSONWithStatus renders data in the success envelope with the given code
func JSONWithStatus(w http.ResponseWriter, data any, message string, code int) {
	writeJSON(w, SuccessResponse{
		StatusCode: code,
		Data:       data,
		Message:    message,
		Success:    true,
	}, code)
}

// ServiceError renders the error envelope
func ServiceError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, ErrorResponse{
		StatusCode: code,
		Message:    message,
		Success:    false,
		Errors:     []string{},
	}, code)
}

// DecodeError renders a json decoding failure as a 400 error envelope
func DecodeError(w http.ResponseWriter, err error) {
	message := ""

	// Try to provide more specific error message based on error type
	switch err := err.(type) {
	case *json.UnmarshalTypeError:
		message = fmt.Sprintf("Invalid data type for field '%s'", err.Field)
	default:
		message = fmt.Sprintf("Failed to parse request body: %s", err.Error())
	}

	writeJSON(w, ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Success:    false,
		Errors:     []string{},
	}, http.StatusBadRequest)
}

// ValidationErrors renders field validation failures as a 400 error envelope
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	fields := make([]string, 0, len(errs))

	// Create user-friendly error messages based on validation tag
	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "is required"
		case "email":
			message = "must be a valid email address"
		case "min":
			message = fmt.Sprintf("is too short (minimum %s)", fieldError.Param())
		default:
			message = "has invalid value"
		}

		fields = append(fields, fmt.Sprintf("%s %s", fieldError.Field(), message))
	}

	writeJSON(w, ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    "All fields are required",
		Success:    false,
		Errors:     fields,
	}, http.StatusBadRequest)
}

// Validate checks the struct against its validate tags and renders field
// errors on failure. Used when the request is bound by hand (multipart forms)
func Validate[T Struct](w http.ResponseWriter, value T) error {
	err := validate.Struct(value)
	if err != nil {
		// pretty sure cast will be ok cause expecting T is valid struct
		errs := err.(validator.ValidationErrors)
		ValidationErrors(w, errs)
		return err
	}

	return nil
}

// BindAndValidate decodes JSON request body into type T and validates it using struct tags.
// Returns the decoded value and writes appropriate error responses for decoding or validation failures.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		DecodeError(w, err)
		return value, err
	}

	return value, Validate(w, value)
}

// writeJSON sends data as json and enforces status code
func writeJSON(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
