package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cli, err := New(&Options{URL: srv.URL, Model: "test-model"})
	assert.Nil(t, err)
	return cli
}

func completion(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
}

func TestComplete(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)

		in := map[string]interface{}{}
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "test-model", in["model"])
		assert.Nil(t, in["response_format"])

		json.NewEncoder(w).Encode(completion("a fine answer"))
	})

	got, err := cli.Complete(context.Background(), "prompt", false)
	assert.Nil(t, err)
	assert.Equal(t, "a fine answer", got)
}

func TestCompleteJSONMode(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		in := map[string]interface{}{}
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&in))
		assert.NotNil(t, in["response_format"])
		json.NewEncoder(w).Encode(completion(`{"questions": ["q"]}`))
	})

	got, err := cli.Complete(context.Background(), "prompt", true)
	assert.Nil(t, err)
	assert.Contains(t, got, "questions")
}

func TestCompleteEmptyResponse(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})

	_, err := cli.Complete(context.Background(), "prompt", false)
	assert.ErrorIs(t, err, errors.ErrEmptyResponse)
}

func TestParseQuestions(t *testing.T) {
	cases := []struct {
		Name      string
		Given     string
		Expect    []string
		ExpectErr error
	}{
		{"Valid", `{"questions": ["a", "b"]}`, []string{"a", "b"}, nil},
		{"NotJSON", `hello there`, nil, errors.ErrParseFailed},
		{"NoQuestions", `{"questions": []}`, nil, errors.ErrParseFailed},
		{"WrongShape", `{"items": ["a"]}`, nil, errors.ErrParseFailed},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			got, err := ParseQuestions(c.Given)
			if c.ExpectErr != nil {
				assert.ErrorIs(t, err, c.ExpectErr)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, c.Expect, got)
		})
	}
}

func TestQuestionPromptTruncates(t *testing.T) {
	resume := strings.Repeat("r", 5000)
	jd := strings.Repeat("j", 5000)

	prompt := QuestionPrompt(resume, jd)

	assert.Contains(t, prompt, strings.Repeat("r", 1500))
	assert.NotContains(t, prompt, strings.Repeat("r", 1501))
	assert.Contains(t, prompt, strings.Repeat("j", 1000))
	assert.NotContains(t, prompt, strings.Repeat("j", 1001))
}
