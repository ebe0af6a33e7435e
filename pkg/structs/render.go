package structs

const inferenceCompleted = "completed"

// Avatar is a presenter offered by the render service.
type Avatar struct {
	ID      string `json:"avatar_id"`
	Name    string `json:"avatar_name"`
	Preview string `json:"preview_url,omitempty"`
}

// Inference is one avatar-video render job as the render service reports it.
// The service's job list is not ordered; callers match on ID.
type Inference struct {
	ID     string `json:"inference_id"`
	Status string `json:"status"`
	Video  string `json:"video"`
}

// Done reports whether the render finished with a usable output.
// A "completed" status with no video URL counts as not done.
func (i *Inference) Done() bool {
	return i.Status == inferenceCompleted && i.Video != ""
}
