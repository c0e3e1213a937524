package types

import (
	"fmt"

	"github.com/code19m/errx"
)

// Error codes of the image asset pipeline.
const (
	CodeUnsupportedType  = "UNSUPPORTED_TYPE"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeMalformedUpload  = "MALFORMED_UPLOAD"
	CodeDerivationFailed = "DERIVATION_FAILED"
	CodeCommitFailed     = "COMMIT_FAILED"
	CodeAssetReadFailed  = "ASSET_READ_FAILED"
	CodeInvalidReference = "INVALID_REFERENCE"
	CodeUnknownVariant   = "UNKNOWN_VARIANT"
)

// NewUnsupportedType reports a file whose extension is outside the allow-list.
func NewUnsupportedType(ext string, allowed []string) error {
	return errx.New(
		fmt.Sprintf("file extension %q is not allowed", ext),
		errx.WithCode(CodeUnsupportedType),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"extension": ext, "allowed": allowed}),
	)
}

// NewFileTooLarge reports a file above the size ceiling.
func NewFileTooLarge(size, limit int64) error {
	return errx.New(
		fmt.Sprintf("file size %d bytes exceeds the limit of %d bytes", size, limit),
		errx.WithCode(CodeFileTooLarge),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"size": size, "limit": limit}),
	)
}

// NewMalformedUpload reports a multipart request that could not be understood.
func NewMalformedUpload(reason string, cause error) error {
	if cause != nil {
		return errx.Wrap(
			cause,
			errx.WithCode(CodeMalformedUpload),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"reason": reason}),
		)
	}
	return errx.New(
		reason,
		errx.WithCode(CodeMalformedUpload),
		errx.WithType(errx.T_Validation),
	)
}

// NewDerivationError wraps a failure of the resize or recompress step.
func NewDerivationError(step string, cause error) error {
	return errx.Wrap(
		cause,
		errx.WithCode(CodeDerivationFailed),
		errx.WithType(errx.T_Internal),
		errx.WithDetails(errx.D{"step": step}),
	)
}

// NewCommitError wraps a failure of the caller's persistence step.
func NewCommitError(cause error) error {
	return errx.Wrap(
		cause,
		errx.WithCode(CodeCommitFailed),
		errx.WithType(errx.T_Internal),
	)
}

// NewAssetReadError wraps a failure to read a stored variant.
func NewAssetReadError(path string, cause error) error {
	return errx.Wrap(
		cause,
		errx.WithCode(CodeAssetReadFailed),
		errx.WithType(errx.T_Internal),
		errx.WithDetails(errx.D{"path": path}),
	)
}

// NewInvalidReference reports a reference that cannot be encoded or decoded.
func NewInvalidReference(reason string, raw string) error {
	return errx.New(
		reason,
		errx.WithCode(CodeInvalidReference),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"reference": raw}),
	)
}

// NewUnknownVariant reports a variant token that is not recognised.
func NewUnknownVariant(raw string) error {
	return errx.New(
		fmt.Sprintf("unknown image variant %q", raw),
		errx.WithCode(CodeUnknownVariant),
		errx.WithType(errx.T_Validation),
		errx.WithFields(errx.M{"variant": "Must be one of: original, compressed, miniature"}),
	)
}
