package structs

const (
	queryLimitDefault = 100
	queryLimitMax     = 1000
)

type Query struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// Filters
	IDs             []string `json:"ids,omitempty"`
	States          []State  `json:"states,omitempty"`
	CandidateEmails []string `json:"candidate_emails,omitempty"`
}

func (q *Query) Sanitize() {
	if q.Limit <= 0 {
		q.Limit = queryLimitDefault
	}
	if q.Limit > queryLimitMax {
		q.Limit = queryLimitMax
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if len(q.IDs) == 0 {
		q.IDs = nil
	}
	if len(q.States) == 0 {
		q.States = nil
	}
	if len(q.CandidateEmails) == 0 {
		q.CandidateEmails = nil
	}
}
