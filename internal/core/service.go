package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Shubhamxshah/arora-the-interview-app/internal/utils"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/config"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/database"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/llm"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/media"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/queue"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/render"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/storage"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/structs"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/transcribe"
)

const (
	// queue task types
	taskGenerate  = "interview:generate"
	taskCandidate = "interview:candidate"

	// defaults
	defPollInterval    = 5 * time.Second
	defMaxPollAttempts = 30
	defStageTimeout    = 30 * time.Minute
)

var timeNow = func() int64 { return time.Now().Unix() }

// Options tune pipeline behaviour; zero values take defaults.
type Options struct {
	// PollInterval is the wait between render status polls.
	PollInterval time.Duration

	// MaxPollAttempts caps render polling; exceeding it fails the run.
	MaxPollAttempts int

	// ScratchDir overrides the config scratch dir when set.
	ScratchDir string
}

func (o *Options) SetDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = defPollInterval
	}
	if o.MaxPollAttempts <= 0 {
		o.MaxPollAttempts = defMaxPollAttempts
	}
}

// Assembler is what the merge stage needs from pkg/media.
type Assembler interface {
	Probe(ctx context.Context, path string) (media.Streams, error)
	PrepareFiller(ctx context.Context, baseVideo, timestamp, dir string) (string, error)
	Encode(ctx context.Context, plan *media.Plan, dir, out string) error
	Download(ctx context.Context, url, path string) error
}

// Service drives interviews through the pipeline. API operations insert
// or nudge records and enqueue a run; queue handlers do the slow work.
type Service struct {
	db     database.Database
	qu     queue.Queue
	render render.Client
	llm    llm.Client
	store  storage.Client
	script transcribe.Transcriber
	media  Assembler
	cfg    *config.Config
	opts   *Options
	log    *slog.Logger
}

func NewService(
	db database.Database,
	qu queue.Queue,
	rc render.Client,
	lc llm.Client,
	sc storage.Client,
	tr transcribe.Transcriber,
	asm Assembler,
	cfg *config.Config,
	opts *Options,
	log *slog.Logger,
) (*Service, error) {
	if opts == nil {
		opts = &Options{}
	}
	opts.SetDefaults()
	if log == nil {
		log = slog.Default()
	}

	me := &Service{
		db:     db,
		qu:     qu,
		render: rc,
		llm:    lc,
		store:  sc,
		script: tr,
		media:  asm,
		cfg:    cfg,
		opts:   opts,
		log:    log,
	}

	err := qu.Register(taskGenerate, me.handleGenerate)
	if err != nil {
		return nil, err
	}
	err = qu.Register(taskCandidate, me.handleCandidate)
	if err != nil {
		return nil, err
	}
	return me, nil
}

// Run blocks processing queue tasks until Close is called.
func (s *Service) Run() error {
	return s.qu.Run()
}

func (s *Service) Close() error {
	s.qu.Close()
	return s.db.Close()
}

type taskPayload struct {
	InterviewID string `json:"interview_id"`

	// Recording is the scratch path of the candidate's uploaded video;
	// set only on candidate tasks.
	Recording string `json:"recording,omitempty"`
}

// CreateInterview validates the spec, records the interview and kicks off
// the generation pipeline. The caller gets the id back immediately and
// polls for progress.
func (s *Service) CreateInterview(req *structs.CreateInterviewRequest) (*structs.Interview, error) {
	err := s.validateSpec(&req.InterviewSpec)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	in := &structs.Interview{
		InterviewSpec: req.InterviewSpec,
		ID:            utils.NewRandomID(),
		State:         structs.CREATED,
		ETag:          utils.NewRandomID(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.db.Insert(in); err != nil {
		return nil, err
	}

	if err := s.enqueue(taskGenerate, &taskPayload{InterviewID: in.ID}); err != nil {
		s.fail(in.ID, err)
		return nil, err
	}
	return in, nil
}

// SubmitRecording stores the candidate's recorded video and kicks off the
// candidate pipeline.
func (s *Service) SubmitRecording(id string, recording io.Reader) (*structs.Interview, error) {
	in, err := s.db.Get(id)
	if err != nil {
		return nil, err
	}
	if in.State != structs.READY_FOR_CANDIDATE && in.State != structs.WAITING_FOR_CANDIDATE {
		return nil, fmt.Errorf("%w: interview %s is %s, not awaiting a recording", errors.ErrInvalidState, id, in.State)
	}

	path, err := s.saveRecording(id, recording)
	if err != nil {
		return nil, err
	}

	err = s.update(in, &database.Update{State: structs.CANDIDATE_COMPLETED})
	if err != nil {
		return nil, err
	}

	if err := s.enqueue(taskCandidate, &taskPayload{InterviewID: id, Recording: path}); err != nil {
		s.fail(id, err)
		return nil, err
	}
	return s.db.Get(id)
}

// SetState handles candidate-facing nudges. The only transition callers
// may request directly is READY_FOR_CANDIDATE -> WAITING_FOR_CANDIDATE
// (the candidate opened their interview); everything else is driven by
// the pipeline itself.
func (s *Service) SetState(id string, state structs.State) (*structs.Interview, error) {
	if state != structs.WAITING_FOR_CANDIDATE {
		return nil, fmt.Errorf("%w: state %s cannot be set directly", errors.ErrInvalidState, state)
	}

	in, err := s.db.Get(id)
	if err != nil {
		return nil, err
	}
	if in.State != structs.READY_FOR_CANDIDATE {
		return nil, fmt.Errorf("%w: interview %s is %s", errors.ErrInvalidState, id, in.State)
	}

	err = s.update(in, &database.Update{State: structs.WAITING_FOR_CANDIDATE})
	if err != nil {
		return nil, err
	}
	return s.db.Get(id)
}

// Interview fetches one interview by id.
func (s *Service) Interview(id string) (*structs.Interview, error) {
	if !utils.IsValidID(id) {
		return nil, fmt.Errorf("%w: %s is not a valid id", errors.ErrInvalidArg, id)
	}
	return s.db.Get(id)
}

// Interviews lists interviews matching the query.
func (s *Service) Interviews(q *structs.Query) ([]*structs.Interview, error) {
	q.Sanitize()
	return s.db.Interviews(q)
}

// Avatars passes through the render service's presenter catalog.
func (s *Service) Avatars(ctx context.Context) ([]*structs.Avatar, error) {
	return s.render.Avatars(ctx)
}

func (s *Service) enqueue(task string, p *taskPayload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.qu.Enqueue(task, data)
	return err
}

func (s *Service) handleGenerate(payload []byte) error {
	p := &taskPayload{}
	if err := json.Unmarshal(payload, p); err != nil {
		return err
	}
	s.runGenerate(p.InterviewID)
	return nil
}

func (s *Service) handleCandidate(payload []byte) error {
	p := &taskPayload{}
	if err := json.Unmarshal(payload, p); err != nil {
		return err
	}
	s.runCandidate(p.InterviewID, p.Recording)
	return nil
}

// update applies a patch + transition with optimistic locking. A missed
// write means someone else moved the interview; we stop rather than fight.
func (s *Service) update(in *structs.Interview, u *database.Update) error {
	altered, err := s.db.Update(in.ID, in.ETag, u)
	if err != nil {
		return err
	}
	if altered != 1 {
		return fmt.Errorf("%w: interview %s changed underneath us", errors.ErrETagMismatch, in.ID)
	}
	return nil
}

// fail parks the interview in FAILED with the cause. It skips the etag
// check: the failure path must win from whatever state the run died in.
func (s *Service) fail(id string, cause error) {
	s.log.Error("pipeline run failed", "interview", id, "error", cause)
	_, err := s.db.Update(id, "", &database.Update{
		State: structs.FAILED,
		Error: cause.Error(),
	})
	if err != nil {
		s.log.Error("failed to record failure", "interview", id, "error", err)
	}
}

func (s *Service) scratchDir() string {
	if s.opts.ScratchDir != "" {
		return s.opts.ScratchDir
	}
	return s.cfg.ScratchDir
}

func (s *Service) saveRecording(id string, recording io.Reader) (string, error) {
	dir := filepath.Join(s.scratchDir(), "recordings")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}

	path := filepath.Join(dir, id+".webm")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, recording); err != nil {
		return "", err
	}
	return path, nil
}
