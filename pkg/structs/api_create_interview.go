package structs

// CreateInterviewRequest asks for a new interview to be generated.
type CreateInterviewRequest struct {
	InterviewSpec `json:",inline"`
}

// CreateInterviewResponse is returned as soon as the interview record is
// persisted; the pipeline runs on in the background.
type CreateInterviewResponse struct {
	ID    string `json:"interview_id"`
	State State  `json:"state"`
}

// SetStateRequest moves an interview between candidate-facing states.
type SetStateRequest struct {
	State State `json:"state"`
}
