package database

import (
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/structs"
)

// Update is a partial-field patch applied together with a state transition
// in one atomic write. State must always be set; zero-valued fields are
// left untouched. Error is only ever written alongside a FAILED state.
type Update struct {
	State structs.State

	Questions         []string
	RenderIDs         []string
	VideoURL          string
	ThumbnailURL      string
	CandidateVideoURL string
	Transcript        string
	Summary           string
	CompletedAt       int64
	Error             string
}

// Database is the single durable owner of interview records.
//
// A pipeline run is the only writer for its interview, so implementations
// don't need to arbitrate concurrent writers, but they must apply Update
// atomically (readers polling for status never see a state without its
// stage outputs) and must not corrupt data under concurrent reads.
type Database interface {
	// Insert a newly created interview.
	Insert(in *structs.Interview) error

	// Get one interview by id. Returns ErrNotFound if it doesn't exist.
	Get(id string) (*structs.Interview, error)

	// Interviews returns interviews matching the given query.
	Interviews(q *structs.Query) ([]*structs.Interview, error)

	// Update applies the patch + state transition in one write and bumps
	// the etag. If etag is non-empty the write only lands when it matches
	// the stored etag (optimistic locking); the returned count says how
	// many rows were altered. An empty etag skips the check; that's
	// reserved for the failure path, which must win from any state.
	Update(id, etag string, u *Update) (int64, error)

	Close() error
}

// applyUpdate patches an in-memory copy of an interview. Shared by the
// badger and memory implementations; postgres does this in SQL.
func applyUpdate(in *structs.Interview, u *Update, newTag string, now int64) {
	in.State = u.State
	in.ETag = newTag
	in.UpdatedAt = now
	if u.Questions != nil {
		in.Questions = u.Questions
	}
	if u.RenderIDs != nil {
		in.RenderIDs = u.RenderIDs
	}
	if u.VideoURL != "" {
		in.VideoURL = u.VideoURL
	}
	if u.ThumbnailURL != "" {
		in.ThumbnailURL = u.ThumbnailURL
	}
	if u.CandidateVideoURL != "" {
		in.CandidateVideoURL = u.CandidateVideoURL
	}
	if u.Transcript != "" {
		in.Transcript = u.Transcript
	}
	if u.Summary != "" {
		in.Summary = u.Summary
	}
	if u.CompletedAt != 0 {
		in.CompletedAt = u.CompletedAt
	}
	if u.Error != "" {
		in.Error = u.Error
	}
}

// matches applies query filters to a single interview (for the key-value
// backed implementations, which filter after the scan).
func matches(in *structs.Interview, q *structs.Query) bool {
	if q.IDs != nil && !containsString(q.IDs, in.ID) {
		return false
	}
	if q.CandidateEmails != nil && !containsString(q.CandidateEmails, in.CandidateEmail) {
		return false
	}
	if q.States != nil {
		found := false
		for _, s := range q.States {
			if s == in.State {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
