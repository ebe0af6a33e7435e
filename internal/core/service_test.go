package core

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/Shubhamxshah/arora-the-interview-app/internal/mocks/pkg/llm_mock"
	"github.com/Shubhamxshah/arora-the-interview-app/internal/mocks/pkg/render_mock"
	"github.com/Shubhamxshah/arora-the-interview-app/internal/mocks/pkg/storage_mock"
	"github.com/Shubhamxshah/arora-the-interview-app/internal/mocks/pkg/transcribe_mock"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/config"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/database"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/media"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/storage"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/structs"
)

// recordQueue captures enqueues without running handlers, so tests drive
// pipeline runs directly and deterministically.
type recordQueue struct {
	enqueued []string
	handlers map[string]func([]byte) error
}

func newRecordQueue() *recordQueue {
	return &recordQueue{handlers: map[string]func([]byte) error{}}
}

func (q *recordQueue) Register(task string, h func([]byte) error) error {
	q.handlers[task] = h
	return nil
}

func (q *recordQueue) Enqueue(task string, payload []byte) (string, error) {
	q.enqueued = append(q.enqueued, task)
	return "queued-1", nil
}

func (q *recordQueue) Run() error   { return nil }
func (q *recordQueue) Close() error { return nil }

// fakeAssembler writes placeholder files instead of running ffmpeg.
type fakeAssembler struct {
	encodeErr  error
	downloaded []string
}

func (f *fakeAssembler) Probe(_ context.Context, path string) (media.Streams, error) {
	return media.Streams{Video: true, Audio: true}, nil
}

func (f *fakeAssembler) PrepareFiller(_ context.Context, baseVideo, timestamp, dir string) (string, error) {
	path := filepath.Join(dir, "filler.mp4")
	return path, os.WriteFile(path, []byte("filler"), 0600)
}

func (f *fakeAssembler) Encode(_ context.Context, plan *media.Plan, dir, out string) error {
	if f.encodeErr != nil {
		return f.encodeErr
	}
	return os.WriteFile(out, []byte("merged"), 0600)
}

func (f *fakeAssembler) Download(_ context.Context, url, path string) error {
	f.downloaded = append(f.downloaded, url)
	return os.WriteFile(path, []byte("clip:"+url), 0600)
}

type harness struct {
	svc    *Service
	db     *database.Memory
	qu     *recordQueue
	render *render_mock.MockClient
	llm    *llm_mock.MockClient
	store  *storage_mock.MockClient
	script *transcribe_mock.MockTranscriber
	asm    *fakeAssembler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		db:     database.NewMemory(),
		qu:     newRecordQueue(),
		render: render_mock.NewMockClient(ctrl),
		llm:    llm_mock.NewMockClient(ctrl),
		store:  storage_mock.NewMockClient(ctrl),
		script: transcribe_mock.NewMockTranscriber(ctrl),
		asm:    &fakeAssembler{},
	}

	cfg := &config.Config{
		Avatars:    map[string]string{"emma": "/srv/avatars/emma.mp4"},
		ScratchDir: t.TempDir(),
	}
	opts := &Options{PollInterval: time.Millisecond, MaxPollAttempts: 3}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	svc, err := NewService(h.db, h.qu, h.render, h.llm, h.store, h.script, h.asm, cfg, opts, log)
	assert.Nil(t, err)
	h.svc = svc
	return h
}

func validSpec() structs.InterviewSpec {
	return structs.InterviewSpec{
		AvatarID:       "emma",
		ResumeText:     "Five years of Go and distributed systems.",
		JobDescription: "Backend engineer on the platform team.",
		CandidateEmail: "candidate@example.com",
		Timestamp:      "00:01:30",
		CreatorEmail:   "recruiter@example.com",
	}
}

func completed(id, url string) *structs.Inference {
	return &structs.Inference{ID: id, Status: "completed", Video: url}
}

func TestCreateInterview(t *testing.T) {
	h := newHarness(t)

	in, err := h.svc.CreateInterview(&structs.CreateInterviewRequest{InterviewSpec: validSpec()})

	assert.Nil(t, err)
	assert.Equal(t, structs.CREATED, in.State)
	assert.NotEqual(t, "", in.ID)
	assert.NotEqual(t, "", in.ETag)
	assert.Equal(t, []string{taskGenerate}, h.qu.enqueued)

	stored, err := h.db.Get(in.ID)
	assert.Nil(t, err)
	assert.Equal(t, structs.CREATED, stored.State)
}

func TestCreateInterviewValidation(t *testing.T) {
	breakSpec := func(mod func(*structs.InterviewSpec)) structs.InterviewSpec {
		s := validSpec()
		mod(&s)
		return s
	}

	cases := []struct {
		Name   string
		Given  structs.InterviewSpec
		Expect error
	}{
		{
			Name:   "missing resume",
			Given:  breakSpec(func(s *structs.InterviewSpec) { s.ResumeText = "" }),
			Expect: errors.ErrInvalidArg,
		},
		{
			Name:   "missing avatar",
			Given:  breakSpec(func(s *structs.InterviewSpec) { s.AvatarID = "" }),
			Expect: errors.ErrInvalidArg,
		},
		{
			Name:   "bad timestamp",
			Given:  breakSpec(func(s *structs.InterviewSpec) { s.Timestamp = "1:2:3" }),
			Expect: errors.ErrInvalidArg,
		},
		{
			Name:   "minutes overflow",
			Given:  breakSpec(func(s *structs.InterviewSpec) { s.Timestamp = "00:61:00" }),
			Expect: errors.ErrInvalidArg,
		},
		{
			Name:   "bad email",
			Given:  breakSpec(func(s *structs.InterviewSpec) { s.CandidateEmail = "nope" }),
			Expect: errors.ErrInvalidArg,
		},
		{
			Name:   "unknown avatar",
			Given:  breakSpec(func(s *structs.InterviewSpec) { s.AvatarID = "nobody" }),
			Expect: errors.ErrInvalidArg,
		},
		{
			Name: "resume too long",
			Given: breakSpec(func(s *structs.InterviewSpec) {
				s.ResumeText = string(bytes.Repeat([]byte("a"), maxResumeLength+1))
			}),
			Expect: errors.ErrMaxExceeded,
		},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.svc.CreateInterview(&structs.CreateInterviewRequest{InterviewSpec: c.Given})

			assert.ErrorIs(t, err, c.Expect)
			assert.Equal(t, 0, len(h.qu.enqueued))
		})
	}
}

func TestGeneratePipeline(t *testing.T) {
	h := newHarness(t)

	h.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), true).Return(
		`{"questions": ["Hi there! Hope you're well. Tell me about yourself?", "What's your testing approach?"]}`, nil)
	h.render.EXPECT().Submit(gomock.Any(), "emma", gomock.Any(), gomock.Any()).Return("inf-1", nil)
	h.render.EXPECT().Submit(gomock.Any(), "emma", gomock.Any(), gomock.Any()).Return("inf-2", nil)
	h.render.EXPECT().List(gomock.Any()).Return([]*structs.Inference{
		completed("inf-2", "https://cdn.example.com/inf-2.mp4"),
		completed("inf-1", "https://cdn.example.com/inf-1.mp4"),
	}, nil)
	h.store.EXPECT().Upload(gomock.Any(), gomock.Any(), "interviews").Return(
		&storage.Upload{URL: "https://cdn.example.com/interviews/final.mp4"}, nil)

	in, err := h.svc.CreateInterview(&structs.CreateInterviewRequest{InterviewSpec: validSpec()})
	assert.Nil(t, err)

	h.svc.runGenerate(in.ID)

	got, err := h.db.Get(in.ID)
	assert.Nil(t, err)
	assert.Equal(t, structs.READY_FOR_CANDIDATE, got.State)
	assert.Equal(t, 2, len(got.Questions))
	assert.Equal(t, []string{"inf-1", "inf-2"}, got.RenderIDs)
	assert.Equal(t, "https://cdn.example.com/interviews/final.mp4", got.VideoURL)
	assert.Equal(t, "https://cdn.example.com/interviews/final.jpg", got.ThumbnailURL)
	assert.Equal(t, "", got.Error)

	// one clip downloaded per question, in question order
	assert.Equal(t, []string{
		"https://cdn.example.com/inf-1.mp4",
		"https://cdn.example.com/inf-2.mp4",
	}, h.asm.downloaded)
}

func TestGeneratePipelinePollsUntilDone(t *testing.T) {
	h := newHarness(t)

	h.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), true).Return(`{"questions": ["One question?"]}`, nil)
	h.render.EXPECT().Submit(gomock.Any(), "emma", gomock.Any(), gomock.Any()).Return("inf-1", nil)

	// not done on the first poll, done on the second
	h.render.EXPECT().List(gomock.Any()).Return([]*structs.Inference{
		{ID: "inf-1", Status: "processing"},
	}, nil)
	h.render.EXPECT().List(gomock.Any()).Return([]*structs.Inference{
		completed("inf-1", "https://cdn.example.com/inf-1.mp4"),
	}, nil)
	h.store.EXPECT().Upload(gomock.Any(), gomock.Any(), "interviews").Return(
		&storage.Upload{URL: "https://cdn.example.com/interviews/final.mp4"}, nil)

	in, err := h.svc.CreateInterview(&structs.CreateInterviewRequest{InterviewSpec: validSpec()})
	assert.Nil(t, err)

	h.svc.runGenerate(in.ID)

	got, err := h.db.Get(in.ID)
	assert.Nil(t, err)
	assert.Equal(t, structs.READY_FOR_CANDIDATE, got.State)
}

func TestGeneratePipelinePollTimeout(t *testing.T) {
	h := newHarness(t)

	h.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), true).Return(`{"questions": ["One question?"]}`, nil)
	h.render.EXPECT().Submit(gomock.Any(), "emma", gomock.Any(), gomock.Any()).Return("inf-1", nil)
	h.render.EXPECT().List(gomock.Any()).Return([]*structs.Inference{
		{ID: "inf-1", Status: "processing"},
	}, nil).Times(3) // MaxPollAttempts in the harness

	in, err := h.svc.CreateInterview(&structs.CreateInterviewRequest{InterviewSpec: validSpec()})
	assert.Nil(t, err)

	h.svc.runGenerate(in.ID)

	got, err := h.db.Get(in.ID)
	assert.Nil(t, err)
	assert.Equal(t, structs.FAILED, got.State)
	assert.Contains(t, got.Error, "timed out")
	assert.Equal(t, "", got.VideoURL)
}

func TestGeneratePipelineQuestionsUnparseable(t *testing.T) {
	h := newHarness(t)

	h.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), true).Return("here are some questions!", nil)

	in, err := h.svc.CreateInterview(&structs.CreateInterviewRequest{InterviewSpec: validSpec()})
	assert.Nil(t, err)

	h.svc.runGenerate(in.ID)

	got, err := h.db.Get(in.ID)
	assert.Nil(t, err)
	assert.Equal(t, structs.FAILED, got.State)
	assert.NotEqual(t, "", got.Error)
	assert.Nil(t, got.Questions)
}

func TestGeneratePipelineSubmitRejected(t *testing.T) {
	h := newHarness(t)

	h.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), true).Return(`{"questions": ["One question?"]}`, nil)
	h.render.EXPECT().Submit(gomock.Any(), "emma", gomock.Any(), gomock.Any()).Return(
		"", fmt.Errorf("%w for avatar emma", errors.ErrSubmissionRejected))

	in, err := h.svc.CreateInterview(&structs.CreateInterviewRequest{InterviewSpec: validSpec()})
	assert.Nil(t, err)

	h.svc.runGenerate(in.ID)

	got, err := h.db.Get(in.ID)
	assert.Nil(t, err)
	assert.Equal(t, structs.FAILED, got.State)
	assert.Equal(t, 1, len(got.Questions)) // stage output kept; render ids never written
	assert.Nil(t, got.RenderIDs)
}

func TestGeneratePipelineEncodeFallback(t *testing.T) {
	h := newHarness(t)
	h.asm.encodeErr = fmt.Errorf("%w: concat blew up", errors.ErrEncodeFailed)

	h.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), true).Return(
		`{"questions": ["First question?", "Second question?"]}`, nil)
	h.render.EXPECT().Submit(gomock.Any(), "emma", gomock.Any(), gomock.Any()).Return("inf-1", nil)
	h.render.EXPECT().Submit(gomock.Any(), "emma", gomock.Any(), gomock.Any()).Return("inf-2", nil)
	h.render.EXPECT().List(gomock.Any()).Return([]*structs.Inference{
		completed("inf-1", "https://cdn.example.com/inf-1.mp4"),
		completed("inf-2", "https://cdn.example.com/inf-2.mp4"),
	}, nil)

	var uploaded string
	h.store.EXPECT().Upload(gomock.Any(), gomock.Any(), "interviews").DoAndReturn(
		func(_ context.Context, path, _ string) (*storage.Upload, error) {
			data, err := os.ReadFile(path)
			assert.Nil(t, err)
			uploaded = string(data)
			return &storage.Upload{URL: "https://cdn.example.com/interviews/final.mp4"}, nil
		})

	in, err := h.svc.CreateInterview(&structs.CreateInterviewRequest{InterviewSpec: validSpec()})
	assert.Nil(t, err)

	h.svc.runGenerate(in.ID)

	got, err := h.db.Get(in.ID)
	assert.Nil(t, err)
	assert.Equal(t, structs.READY_FOR_CANDIDATE, got.State)
	// the first question's clip shipped alone
	assert.Equal(t, "clip:https://cdn.example.com/inf-1.mp4", uploaded)
}

func TestGenerateSkipsNonCreated(t *testing.T) {
	h := newHarness(t)

	in, err := h.svc.CreateInterview(&structs.CreateInterviewRequest{InterviewSpec: validSpec()})
	assert.Nil(t, err)
	_, err = h.db.Update(in.ID, in.ETag, &database.Update{State: structs.GENERATING_QUESTIONS})
	assert.Nil(t, err)

	h.svc.runGenerate(in.ID) // no mock expectations: nothing may be called

	got, err := h.db.Get(in.ID)
	assert.Nil(t, err)
	assert.Equal(t, structs.GENERATING_QUESTIONS, got.State)
}

// readyInterview fast-forwards an interview to READY_FOR_CANDIDATE.
func readyInterview(t *testing.T, h *harness) *structs.Interview {
	t.Helper()
	in, err := h.svc.CreateInterview(&structs.CreateInterviewRequest{InterviewSpec: validSpec()})
	assert.Nil(t, err)

	_, err = h.db.Update(in.ID, in.ETag, &database.Update{
		State:     structs.READY_FOR_CANDIDATE,
		Questions: []string{"First question?", "Second question?"},
		RenderIDs: []string{"inf-1", "inf-2"},
		VideoURL:  "https://cdn.example.com/interviews/final.mp4",
	})
	assert.Nil(t, err)

	got, err := h.db.Get(in.ID)
	assert.Nil(t, err)
	h.qu.enqueued = nil
	return got
}

func TestSetState(t *testing.T) {
	h := newHarness(t)
	in := readyInterview(t, h)

	got, err := h.svc.SetState(in.ID, structs.WAITING_FOR_CANDIDATE)

	assert.Nil(t, err)
	assert.Equal(t, structs.WAITING_FOR_CANDIDATE, got.State)
}

func TestSetStateRejectsOtherTransitions(t *testing.T) {
	h := newHarness(t)
	in := readyInterview(t, h)

	_, err := h.svc.SetState(in.ID, structs.COMPLETED)
	assert.ErrorIs(t, err, errors.ErrInvalidState)

	// right target, wrong source
	_, err = h.svc.SetState(in.ID, structs.WAITING_FOR_CANDIDATE)
	assert.Nil(t, err)
	_, err = h.svc.SetState(in.ID, structs.WAITING_FOR_CANDIDATE)
	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestSubmitRecording(t *testing.T) {
	h := newHarness(t)
	in := readyInterview(t, h)

	got, err := h.svc.SubmitRecording(in.ID, bytes.NewReader([]byte("webm bytes")))

	assert.Nil(t, err)
	assert.Equal(t, structs.CANDIDATE_COMPLETED, got.State)
	assert.Equal(t, []string{taskCandidate}, h.qu.enqueued)
}

func TestSubmitRecordingWrongState(t *testing.T) {
	h := newHarness(t)

	in, err := h.svc.CreateInterview(&structs.CreateInterviewRequest{InterviewSpec: validSpec()})
	assert.Nil(t, err)

	_, err = h.svc.SubmitRecording(in.ID, bytes.NewReader([]byte("webm bytes")))
	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestCandidatePipeline(t *testing.T) {
	h := newHarness(t)
	in := readyInterview(t, h)

	_, err := h.svc.SubmitRecording(in.ID, bytes.NewReader([]byte("webm bytes")))
	assert.Nil(t, err)

	h.store.EXPECT().Upload(gomock.Any(), gomock.Any(), "candidate-responses").Return(
		&storage.Upload{URL: "https://cdn.example.com/candidate-responses/rec.webm"}, nil)
	h.script.EXPECT().Transcribe(gomock.Any(), gomock.Any(), gomock.Any()).Return("Interviewer: hi\nCandidate: hello", nil)
	h.llm.EXPECT().Complete(gomock.Any(), gomock.Any(), false).Return("Strong candidate, hire.", nil)

	recording := filepath.Join(h.svc.scratchDir(), "recordings", in.ID+".webm")
	h.svc.runCandidate(in.ID, recording)

	got, err := h.db.Get(in.ID)
	assert.Nil(t, err)
	assert.Equal(t, structs.COMPLETED, got.State)
	assert.Equal(t, "https://cdn.example.com/candidate-responses/rec.webm", got.CandidateVideoURL)
	assert.Equal(t, "Interviewer: hi\nCandidate: hello", got.Transcript)
	assert.Equal(t, "Strong candidate, hire.", got.Summary)
	assert.NotEqual(t, int64(0), got.CompletedAt)
}

func TestCandidatePipelineUploadFails(t *testing.T) {
	h := newHarness(t)
	in := readyInterview(t, h)

	_, err := h.svc.SubmitRecording(in.ID, bytes.NewReader([]byte("webm bytes")))
	assert.Nil(t, err)

	h.store.EXPECT().Upload(gomock.Any(), gomock.Any(), "candidate-responses").Return(
		nil, fmt.Errorf("%w: denied", errors.ErrUploadFailed))

	h.svc.runCandidate(in.ID, filepath.Join(h.svc.scratchDir(), "recordings", in.ID+".webm"))

	got, err := h.db.Get(in.ID)
	assert.Nil(t, err)
	assert.Equal(t, structs.FAILED, got.State)
	assert.NotEqual(t, "", got.Error)
}

func TestInterviewRequiresValidID(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Interview("not-a-uuid")
	assert.ErrorIs(t, err, errors.ErrInvalidArg)
}

func TestInterviews(t *testing.T) {
	h := newHarness(t)

	a, err := h.svc.CreateInterview(&structs.CreateInterviewRequest{InterviewSpec: validSpec()})
	assert.Nil(t, err)
	_, err = h.svc.CreateInterview(&structs.CreateInterviewRequest{InterviewSpec: validSpec()})
	assert.Nil(t, err)

	all, err := h.svc.Interviews(&structs.Query{})
	assert.Nil(t, err)
	assert.Equal(t, 2, len(all))

	one, err := h.svc.Interviews(&structs.Query{IDs: []string{a.ID}})
	assert.Nil(t, err)
	assert.Equal(t, 1, len(one))
	assert.Equal(t, a.ID, one[0].ID)
}
