package service

// Delete outcomes.
const (
	OutcomeDeleted    = "deleted"
	OutcomePartial    = "partial"
	OutcomeNotDeleted = "not_deleted"
)

// DeleteResult reports what a Delete removed from each store.
type DeleteResult struct {
	Primary  bool
	Index    bool
	IndexErr error
}

// Outcome classifies the result. A shadow error after the primary record was removed is partial.
func (r DeleteResult) Outcome() string {
	switch {
	case r.Primary && r.Index:
		return OutcomeDeleted
	case r.Primary || r.Index:
		return OutcomePartial
	default:
		return OutcomeNotDeleted
	}
}

// Deleted reports whether both the primary record and its shadow were removed.
func (r DeleteResult) Deleted() bool {
	return r.Outcome() == OutcomeDeleted
}

// ReindexStats summarizes a Reindex run.
type ReindexStats struct {
	Total   int `json:"total"`
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
}
