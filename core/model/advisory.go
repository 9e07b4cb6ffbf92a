package model

// AdvisoryKind classifies a non-fatal condition met while building a report.
type AdvisoryKind string

const (
	SourceMissing        AdvisoryKind = "source_missing"
	SourceInvalid        AdvisoryKind = "source_invalid"
	SourceEmpty          AdvisoryKind = "source_empty"
	AssetMissing         AdvisoryKind = "asset_missing"
	DocumentationMissing AdvisoryKind = "documentation_missing"
)

// Advisory is a user-visible warning. Subject is the label or path concerned.
type Advisory struct {
	Kind    AdvisoryKind `json:"kind"`
	Subject string       `json:"subject"`
	Message string       `json:"message"`
}
