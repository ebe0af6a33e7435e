package structs

// InterviewSpec are fields set when an interview is created.
// They are immutable for the life of the interview.
type InterviewSpec struct {
	// AvatarID is the render-service avatar that reads out questions.
	//
	// Required.
	AvatarID string `json:"avatar_id"`

	// ResumeText is the candidate's resume as plain text.
	//
	// Required.
	ResumeText string `json:"resume_text"`

	// JobDescription is the role description questions are generated against.
	//
	// Required.
	JobDescription string `json:"job_description"`

	// CandidateEmail is where the interview invitation goes.
	//
	// Required.
	CandidateEmail string `json:"candidate_email"`

	// Timestamp (HH:MM:SS) marks where in the avatar's base video the
	// "nodding" filler clip is cut from.
	//
	// Required.
	Timestamp string `json:"timestamp"`

	// CreatorEmail identifies whoever requested the interview.
	CreatorEmail string `json:"creator_email"`
}

// Interview is one interview-generation workflow instance, from creation
// through completion (or failure).
type Interview struct {
	InterviewSpec `json:",inline"`

	// ID is a unique identifier for this interview
	ID string `json:"id"`

	// State is the pipeline state the interview is currently in
	State State `json:"state"`

	// ETag is used when updating an interview for optimistic locking
	ETag string `json:"etag"`

	// Questions generated for the candidate, in ask-order. Written once
	// by the question stage and never reordered; clip order and render id
	// order both key off this.
	Questions []string `json:"questions,omitempty"`

	// RenderIDs are render-service job handles, index-aligned with Questions.
	RenderIDs []string `json:"render_ids,omitempty"`

	// VideoURL is the uploaded merged interview video.
	VideoURL string `json:"video_url,omitempty"`

	// ThumbnailURL is derived from VideoURL by extension substitution.
	ThumbnailURL string `json:"thumbnail_url,omitempty"`

	// CandidateVideoURL is the uploaded candidate recording.
	CandidateVideoURL string `json:"candidate_video_url,omitempty"`

	// Transcript of the candidate's recorded response.
	Transcript string `json:"transcript,omitempty"`

	// Summary is the AI hiring report built from the transcript.
	Summary string `json:"summary,omitempty"`

	// Error holds the last fatal error; set only when State is FAILED.
	Error string `json:"error,omitempty"`

	// CreatedAt is the time this interview was created, unix time in seconds
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the time this interview was last updated, unix time in seconds
	UpdatedAt int64 `json:"updated_at"`

	// CompletedAt is set when the candidate pipeline finishes, unix time in seconds
	CompletedAt int64 `json:"completed_at,omitempty"`
}
