package transcribe

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptedPairsQuestionsWithReplies(t *testing.T) {
	questions := []string{
		"Tell me about yourself.",
		"Describe a challenging project.",
	}

	got, err := (&Scripted{}).Transcribe(context.Background(), "/tmp/recording.webm", questions)

	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(got, "Interview Transcript:"))
	for _, q := range questions {
		assert.Contains(t, got, "Interviewer: "+q)
	}
	assert.Equal(t, 2, strings.Count(got, "Candidate:"))

	// interviewer turn always precedes the matching candidate turn
	assert.Less(t, strings.Index(got, questions[0]), strings.Index(got, questions[1]))
}

func TestScriptedMoreQuestionsThanReplies(t *testing.T) {
	questions := make([]string, len(scriptedReplies)+2)
	for i := range questions {
		questions[i] = "Question?"
	}

	got, err := (&Scripted{}).Transcribe(context.Background(), "/tmp/recording.webm", questions)

	assert.Nil(t, err)
	assert.Equal(t, len(questions), strings.Count(got, "Interviewer:"))
}

func TestScriptedNoQuestions(t *testing.T) {
	got, err := (&Scripted{}).Transcribe(context.Background(), "/tmp/recording.webm", nil)

	assert.Nil(t, err)
	assert.Equal(t, "Interview Transcript:\n\n", got)
}
