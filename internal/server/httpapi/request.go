package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
)

// maxBodyBytes caps request bodies well above the largest legal payload
// (a recipe with 100 ingredients and 10000-char steps).
const maxBodyBytes = 1 << 20

// decodeStrict parses a JSON request body into dst, rejecting unknown
// fields, trailing data, and oversized bodies. All failures surface as
// common.ErrorValidation so handlers render them uniformly as 422.
func decodeStrict(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: request body too large", common.ErrorValidation)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", common.ErrorValidation)
		case strings.HasPrefix(err.Error(), "json: unknown field"):
			field := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("%w: unknown field %s", common.ErrorValidation, field)
		default:
			return fmt.Errorf("%w: malformed JSON", common.ErrorValidation)
		}
	}

	// A body like `{}{}` or trailing garbage is rejected too.
	if dec.More() {
		return fmt.Errorf("%w: unexpected trailing data", common.ErrorValidation)
	}
	return nil
}

// validationErrorf builds a common.ErrorValidation wrap for field checks.
func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}
