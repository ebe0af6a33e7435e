package transcribe

import (
	"context"
	"fmt"
	"strings"
)

// Transcriber turns a recorded interview into a text transcript.
type Transcriber interface {
	// Transcribe produces a transcript of the recording at mediaPath.
	// The questions asked are passed so implementations can structure
	// the output as interviewer/candidate turns.
	Transcribe(ctx context.Context, mediaPath string, questions []string) (string, error)
}

// Scripted is a stand-in transcriber. It pairs each question with a
// canned candidate reply rather than running speech recognition.
// TODO: replace with a whisper-backed implementation once we pick a host.
type Scripted struct{}

var scriptedReplies = []string{
	"Hi there! Thanks for having me. I'm excited to be here. I have 5 years of experience in software development, specializing in full-stack web applications.",
	"I worked on a challenging project last year where we had to migrate a legacy system to a modern tech stack. We faced several issues with data migration but successfully implemented a phased approach that minimized downtime.",
	"For testing, I believe in a combination of unit tests and integration tests. I usually aim for at least 80% code coverage, and I make sure to document all APIs thoroughly with examples and edge cases.",
	"I've always valued teamwork. In my last role, I led a team of four developers on a project with tight deadlines. We implemented daily stand-ups and pair programming which significantly improved our productivity.",
	"Thank you for this opportunity. I enjoyed discussing my background and experience, and I look forward to potentially joining your team.",
}

func (s *Scripted) Transcribe(_ context.Context, _ string, questions []string) (string, error) {
	b := &strings.Builder{}
	b.WriteString("Interview Transcript:\n\n")

	for i, q := range questions {
		fmt.Fprintf(b, "Interviewer: %s\n\n", q)
		fmt.Fprintf(b, "Candidate: (Mock response to question %d)\n", i+1)
		if i < len(scriptedReplies) {
			b.WriteString(scriptedReplies[i])
			b.WriteString("\n\n")
		}
	}

	return b.String(), nil
}
