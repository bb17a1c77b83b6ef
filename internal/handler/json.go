package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dukerupert/megapdv/internal/domain"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON reads a single JSON object from the request body into v.
// Unknown fields are rejected. Failures are returned as domain errors
// ready for ErrorResponse.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError

		switch {
		case errors.As(err, &maxErr):
			return domain.Errorf(domain.ETOOLARGE, "", "Request body must not exceed %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return domain.Errorf(domain.EINVALID, "", "Request body must not be empty")
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return domain.Errorf(domain.EINVALID, "", "Request body contains malformed JSON")
		case errors.As(err, &typeErr):
			if typeErr.Field != "" {
				return domain.NewValidationError("", typeErr.Field, "has the wrong type")
			}
			return domain.Errorf(domain.EINVALID, "", "Request body contains a value of the wrong type")
		default:
			return domain.Errorf(domain.EINVALID, "", "Invalid request body: %v", err)
		}
	}

	if dec.More() {
		return domain.Errorf(domain.EINVALID, "", "Request body must contain a single JSON object")
	}
	return nil
}
