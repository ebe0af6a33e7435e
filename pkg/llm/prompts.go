package llm

import (
	"encoding/json"
	"fmt"

	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
)

const (
	// character budgets keep the prompt inside the model's context
	resumeBudget         = 1500
	jobDescriptionBudget = 1000
)

const questionTemplate = `I have a candidate's resume and a job description. Based on these, generate 5 interview questions:

1. A friendly introduction question (start with "Hi there! Hope you're well.")
2. Three technical or experience-based questions that match the candidate's skills with the job requirements
3. A friendly conclusion (end with "That's all we had for today. Congratulations on completing the interview successfully!")

Format the output as a JSON object with a "questions" key holding an array of 5 strings, one for each question. Keep each question under 30 words.

Resume:
%s

Job Description:
%s`

const summaryTemplate = `As an AI assistant, analyze this interview transcript and create a comprehensive summary.

Focus on:
1. Key strengths and qualifications of the candidate
2. Technical skills demonstrated
3. Communication skills
4. Cultural fit indicators
5. Areas for improvement
6. Overall recommendation

Format your response as a structured report that would be helpful for a hiring manager.

Transcript:
%s`

// QuestionPrompt builds the question-generation prompt, truncating the
// resume and job description to their character budgets.
func QuestionPrompt(resume, jobDescription string) string {
	return fmt.Sprintf(questionTemplate, truncate(resume, resumeBudget), truncate(jobDescription, jobDescriptionBudget))
}

// SummaryPrompt builds the hiring-report prompt over a transcript.
func SummaryPrompt(transcript string) string {
	return fmt.Sprintf(summaryTemplate, transcript)
}

type questionsPayload struct {
	Questions []string `json:"questions"`
}

// ParseQuestions decodes the model's JSON question list.
// ErrParseFailed covers both malformed JSON and a well-formed object with
// no questions in it; the pipeline can't do anything with either.
func ParseQuestions(content string) ([]string, error) {
	out := &questionsPayload{}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrParseFailed, err)
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("%w: response contained no questions", errors.ErrParseFailed)
	}
	return out.Questions, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
