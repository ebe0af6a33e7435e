package common

const (
	// API_INTERVIEWS is used to list or create interviews
	API_INTERVIEWS = "/api/v1/interviews"

	// API_INTERVIEW is used to get one interview
	API_INTERVIEW = "/api/v1/interviews/{id}"

	// API_RECORDING is used to submit the candidate's recorded video
	API_RECORDING = "/api/v1/interviews/{id}/recording"

	// API_STATE is used by the candidate UI to mark an interview as opened
	API_STATE = "/api/v1/interviews/{id}/state"

	// API_AVATARS is used to list the render service's presenters
	API_AVATARS = "/api/v1/avatars"

	// RecordingField is the multipart form field carrying the video
	RecordingField = "video"
)
