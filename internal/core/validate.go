package core

import (
	"fmt"
	"strings"

	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/media"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/structs"
)

const (
	// max values
	maxResumeLength         = 50000
	maxJobDescriptionLength = 20000
	maxEmailLength          = 254
	maxAvatarIDLength       = 200
)

func (s *Service) validateSpec(spec *structs.InterviewSpec) error {
	required := map[string]string{
		"avatar_id":       spec.AvatarID,
		"resume_text":     spec.ResumeText,
		"job_description": spec.JobDescription,
		"candidate_email": spec.CandidateEmail,
		"timestamp":       spec.Timestamp,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", errors.ErrInvalidArg, field)
		}
	}

	if len(spec.ResumeText) > maxResumeLength {
		return fmt.Errorf("%w: resume_text over %d chars", errors.ErrMaxExceeded, maxResumeLength)
	}
	if len(spec.JobDescription) > maxJobDescriptionLength {
		return fmt.Errorf("%w: job_description over %d chars", errors.ErrMaxExceeded, maxJobDescriptionLength)
	}
	if len(spec.CandidateEmail) > maxEmailLength || len(spec.CreatorEmail) > maxEmailLength {
		return fmt.Errorf("%w: email over %d chars", errors.ErrMaxExceeded, maxEmailLength)
	}
	if len(spec.AvatarID) > maxAvatarIDLength {
		return fmt.Errorf("%w: avatar_id over %d chars", errors.ErrMaxExceeded, maxAvatarIDLength)
	}

	if !media.ValidTimestamp(spec.Timestamp) {
		return fmt.Errorf("%w: timestamp %q is not HH:MM:SS", errors.ErrInvalidArg, spec.Timestamp)
	}
	if !strings.Contains(spec.CandidateEmail, "@") {
		return fmt.Errorf("%w: candidate_email %q is not an address", errors.ErrInvalidArg, spec.CandidateEmail)
	}

	// reject unknown avatars up front, before the pipeline burns renders
	_, err := s.cfg.BaseVideo(spec.AvatarID)
	return err
}
