package server

import (
	"net/http"

	"github.com/code19m/errx"
)

//nolint:gochecknoglobals // read-only lookup table
var messages = map[string]string{
	"UNSUPPORTED_TYPE":   "This file type is not supported. Upload a jpg, jpeg or png image.",
	"FILE_TOO_LARGE":     "The file is too large.",
	"MALFORMED_UPLOAD":   "The upload could not be read.",
	"DERIVATION_FAILED":  "The image could not be processed. HEIC images cannot be converted yet, upload a jpg or png instead.",
	"COMMIT_FAILED":      "The change could not be saved.",
	"INVALID_REFERENCE":  "The stored image reference is invalid.",
	"UNKNOWN_VARIANT":    "Unknown image variant.",
	"VALIDATION_FAILED":  "Some fields are invalid.",
	"USER_NOT_FOUND":     "User not found.",
	"EVENT_NOT_FOUND":    "Event not found.",
	"ACTIVITY_NOT_FOUND": "Activity not found.",
	"COMPANY_NOT_FOUND":  "Company not found.",
	"UNAUTHENTICATED":    "Authentication is required.",
	"REQUEST_TIMEOUT":    "The request took too long.",
	"EXPIRED_TOKEN":      "The access token has expired.",
	"INVALID_TOKEN":      "The access token is invalid.",
}

// messageFor returns a client facing message for e.
// Unknown codes fall back to the status text of the error type.
func messageFor(e errx.ErrorX) string {
	if msg, ok := messages[e.Code()]; ok {
		return msg
	}
	return http.StatusText(statusOf(e.Type()))
}
