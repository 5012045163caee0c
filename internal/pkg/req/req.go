/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates JSON body binding with strict decoding so that malformed or
oversized input is rejected before any business logic runs.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"murmur/internal/pkg/errs"
)

// MaxBodySize is the maximum allowed size for a JSON request body (1 MB).
const MaxBodySize int64 = 1 << 20

// BindJSON binds the JSON request body to dst. Unknown fields, trailing
// content, and non-JSON content types are all rejected.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
