package types

import "strings"

// Variant names one of the stored renditions of an image asset.
// The variant token doubles as the directory that holds the rendition.
type Variant string

// Known variants.
//
//   - Original:   the uploaded file, staged only until derivation has been attempted.
//   - Compressed: full resolution, recompressed at the caller's quality. Asset references point here.
//   - Miniature:  a bounded-width thumbnail at a fixed lower quality.
const (
	Original   Variant = "original"
	Compressed Variant = "compressed"
	Miniature  Variant = "miniature"
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	switch v {
	case Original, Compressed, Miniature:
		return true
	default:
		return false
	}
}

func (v Variant) String() string {
	return string(v)
}

// ParseVariant converts a raw value to a Variant. Empty input yields Compressed.
func ParseVariant(raw string) (Variant, error) {
	if raw == "" {
		return Compressed, nil
	}
	v := Variant(strings.ToLower(strings.TrimSpace(raw)))
	if !v.Valid() {
		return "", NewUnknownVariant(raw)
	}
	return v, nil
}

// State is a step of the asset lifecycle of a single upload attempt.
type State string

// Lifecycle states reached after an upload passed the gate.
// Happy path: GATED -> DERIVED -> COMMITTED -> OLD_ASSET_CLEANED.
const (
	StateGated            State = "GATED"
	StateDerived          State = "DERIVED"
	StateCommitted        State = "COMMITTED"
	StateFailedDerivation State = "FAILED_DERIVATION"
	StateFailedCommit     State = "FAILED_COMMIT"
	StateCleaned          State = "CLEANED"
	StateOldAssetCleaned  State = "OLD_ASSET_CLEANED"
)
