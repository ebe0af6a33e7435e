package core

import (
	"context"
	"fmt"

	"github.com/Shubhamxshah/arora-the-interview-app/pkg/database"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/llm"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/structs"
)

// runCandidate is the post-interview pipeline: upload the candidate's
// recording, transcribe it, and produce the hiring summary. Same failure
// contract as generation: any error parks the interview in FAILED.
func (s *Service) runCandidate(id, recording string) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(id, fmt.Errorf("pipeline panic: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defStageTimeout)
	defer cancel()

	in, err := s.db.Get(id)
	if err != nil {
		s.fail(id, err)
		return
	}
	if in.State != structs.CANDIDATE_COMPLETED {
		s.log.Warn("candidate run skipped, unexpected state", "interview", id, "state", in.State)
		return
	}
	if err = s.update(in, &database.Update{State: structs.PROCESSING_CANDIDATE_VIDEO}); err != nil {
		s.fail(id, err)
		return
	}

	in, err = s.db.Get(id)
	if err != nil {
		s.fail(id, err)
		return
	}
	if err = s.stageCandidateUpload(ctx, in, recording); err != nil {
		s.fail(id, err)
		return
	}

	in, err = s.db.Get(id)
	if err != nil {
		s.fail(id, err)
		return
	}
	if err = s.stageSummary(ctx, in, recording); err != nil {
		s.fail(id, err)
		return
	}

	s.cleanup(recording)
	s.log.Info("interview completed", "interview", id)
}

func (s *Service) stageCandidateUpload(ctx context.Context, in *structs.Interview, recording string) error {
	up, err := s.store.Upload(ctx, recording, "candidate-responses")
	if err != nil {
		return err
	}
	return s.update(in, &database.Update{
		State:             structs.GENERATING_SUMMARY,
		CandidateVideoURL: up.URL,
	})
}

func (s *Service) stageSummary(ctx context.Context, in *structs.Interview, recording string) error {
	transcript, err := s.script.Transcribe(ctx, recording, in.Questions)
	if err != nil {
		return err
	}
	summary, err := s.llm.Complete(ctx, llm.SummaryPrompt(transcript), false)
	if err != nil {
		return err
	}
	return s.update(in, &database.Update{
		State:       structs.COMPLETED,
		Transcript:  transcript,
		Summary:     summary,
		CompletedAt: timeNow(),
	})
}
