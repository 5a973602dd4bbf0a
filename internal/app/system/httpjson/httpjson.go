// Package httpjson holds the request/response plumbing shared by all JSON
// features: body decoding with a size cap, response encoding, and the
// mapping from the apperr taxonomy to HTTP status codes.
package httpjson

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies. File uploads go through
// multipart and have their own limit in the files feature.
const maxBodyBytes = 1 << 20 // 1 MiB

// Decode reads a JSON body into dst. Malformed bodies surface as
// VALIDATION errors so handlers can pass them straight to Err.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.CodeValidation, "invalid JSON body", err)
	}
	return nil
}

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// IDParam parses a chi URL parameter as an ObjectID. A malformed id is a
// VALIDATION error.
func IDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid " + name)
	}
	return id, nil
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

// Err renders err using the taxonomy mapping. Internal errors are logged
// with their cause; taxonomy errors are the caller's problem and only
// logged at debug level.
func Err(w http.ResponseWriter, logger *zap.Logger, err error) {
	code := apperr.CodeOf(err)
	if code == apperr.CodeInternal {
		logger.Error("request failed", zap.Error(err))
	} else {
		logger.Debug("request rejected", zap.String("code", string(code)), zap.Error(err))
	}
	Write(w, statusFor(code), errorBody{Error: errorDetail{
		Code:    code,
		Message: apperr.MessageOf(err),
	}})
}

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
