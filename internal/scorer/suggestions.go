package scorer

// Verification reasons, priority-ordered in verificationReason. The
// wording is fixed so downstream presentation and tests can rely on it.
const (
	ReasonFormat          = "value format does not match the expected pattern"
	ReasonInconsistency   = "value is inconsistent with related fields on this document"
	ReasonScanQuality     = "scan quality is too low to trust the extraction"
	ReasonRange           = "value is outside the typical range for this field"
	ReasonMultipleFactors = "multiple confidence factors scored low"
)

// suggestionTable maps a verification reason to fixed review suggestions.
// Static lookup keeps the wording centrally testable.
var suggestionTable = map[string][]string{
	ReasonFormat: {
		"Compare the extracted value against the original document",
		"Re-enter the value manually if the format is wrong",
	},
	ReasonInconsistency: {
		"Check related boxes on the same form for transposed digits",
		"Verify the amounts against the issuer's copy",
	},
	ReasonScanQuality: {
		"Re-scan or re-photograph the document at higher resolution",
		"Ensure the document is flat and evenly lit",
	},
	ReasonRange: {
		"Confirm the amount was not misread by a factor of ten",
		"Verify the decimal point position",
	},
	ReasonMultipleFactors: {
		"Review this field against the original document",
	},
}

// verificationReason selects the single highest-priority reason for a
// low-confidence result. First match wins.
func verificationReason(f factors) string {
	switch {
	case f.formatMatch < 70:
		return ReasonFormat
	case f.crossField < 70:
		return ReasonInconsistency
	case f.ocrQuality < 60:
		return ReasonScanQuality
	case f.plausibility < 50:
		return ReasonRange
	default:
		return ReasonMultipleFactors
	}
}

// suggestionsFor returns the fixed suggestions for a verification reason.
func suggestionsFor(reason string) []string {
	return suggestionTable[reason]
}
