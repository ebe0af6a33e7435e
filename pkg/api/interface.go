package api

import (
	"context"
	"io"

	"github.com/Shubhamxshah/arora-the-interview-app/pkg/structs"
)

// API represents the functions arora servers expose.
type API interface {
	// Implemented in internal/core.Service

	CreateInterview(req *structs.CreateInterviewRequest) (*structs.Interview, error)
	SubmitRecording(id string, recording io.Reader) (*structs.Interview, error)
	SetState(id string, state structs.State) (*structs.Interview, error)

	Interview(id string) (*structs.Interview, error)
	Interviews(q *structs.Query) ([]*structs.Interview, error)

	Avatars(ctx context.Context) ([]*structs.Avatar, error)

	// Run blocks processing pipeline tasks until Close is called.
	Run() error
	Close() error
}

type Server interface {
	ServeForever(api API) error
	Close() error
}
