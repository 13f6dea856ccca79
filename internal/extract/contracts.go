package extract

import (
	"context"
	"time"

	"github.com/gerenciadoc/gerenciadoc/constants"
)

// TextExtractor is stage 1 of the pipeline: file -> raw text.
// Implementations are independent, swappable strategies selected by file kind.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Metadata holds the structured fields pulled out of a document's text.
// Date and money fields are pointers so absence is distinguishable from a
// zero value; string fields use "" for absence.
type Metadata struct {
	IssueDate            *time.Time `json:"issueDate,omitempty"`
	ExpirationDate       *time.Time `json:"expirationDate,omitempty"`
	ProposalValue        *float64   `json:"proposalValue,omitempty"`
	BidValue             *float64   `json:"bidValue,omitempty"`
	PercentageDifference *float64   `json:"percentageDifference,omitempty"`
	CNPJ                 string     `json:"cnpj,omitempty"`
	DocumentNumber       string     `json:"documentNumber,omitempty"`
	Issuer               string     `json:"issuer,omitempty"`
}

// IsEmpty reports whether no field was extracted.
func (m Metadata) IsEmpty() bool {
	return m.IssueDate == nil &&
		m.ExpirationDate == nil &&
		m.ProposalValue == nil &&
		m.BidValue == nil &&
		m.PercentageDifference == nil &&
		m.CNPJ == "" &&
		m.DocumentNumber == "" &&
		m.Issuer == ""
}

// Result is what the pipeline hands back to the upload flow. The caller
// merges it with user-supplied fields (manual fields win) before persisting.
type Result struct {
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Type        constants.DocumentType `json:"type,omitempty"`
	CategoryID  string                 `json:"categoryId,omitempty"`
	Metadata    Metadata               `json:"metadata"`
	Tags        []string               `json:"tags,omitempty"`
}
