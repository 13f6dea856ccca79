package extract

// Validate applies cross-field sanity checks. It is a pure filter: invalid
// fields are dropped, the record itself is never rejected.
func Validate(md Metadata) Metadata {
	// Expiration must be strictly after issue.
	if md.IssueDate != nil && md.ExpirationDate != nil && !md.ExpirationDate.After(*md.IssueDate) {
		md.ExpirationDate = nil
	}
	// Money fields are dropped independently when negative.
	if md.ProposalValue != nil && *md.ProposalValue < 0 {
		md.ProposalValue = nil
	}
	if md.BidValue != nil && *md.BidValue < 0 {
		md.BidValue = nil
	}
	return md
}
