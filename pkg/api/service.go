package api

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Shubhamxshah/arora-the-interview-app/internal/core"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/config"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/database"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/llm"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/media"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/queue"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/render"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/storage"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/transcribe"
)

// NewAPI wires up a full service: store, queue, external clients and the
// pipeline, selected by the given options.
func NewAPI(opts *Options, log *slog.Logger) (API, error) {
	if opts == nil {
		opts = OptionsDefault()
	}
	if log == nil {
		log = slog.Default()
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	db, err := newDatabase(opts.Database)
	if err != nil {
		return nil, err
	}

	var qu queue.Queue
	if opts.Queue == nil || opts.Queue.URL == "" {
		qu = queue.NewLocal(log)
	} else {
		qu, err = queue.NewAsynq(opts.Queue)
		if err != nil {
			return nil, err
		}
	}

	rc, err := render.New(opts.Render)
	if err != nil {
		return nil, err
	}
	lc, err := llm.New(opts.LLM)
	if err != nil {
		return nil, err
	}
	sc, err := storage.New(opts.Storage)
	if err != nil {
		return nil, err
	}

	// yaml config tunes the pipeline unless the caller set explicit
	// options (flags beat file)
	pl := opts.Pipeline
	if pl == nil {
		pl = &core.Options{}
	}
	if pl.PollInterval <= 0 && cfg.PollIntervalSeconds > 0 {
		pl.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second
	}
	if pl.MaxPollAttempts <= 0 {
		pl.MaxPollAttempts = cfg.MaxPollAttempts
	}

	asm := media.NewAssembler(log, &media.Options{
		FillerSegmentSeconds: cfg.FillerSegmentSeconds,
		FillerLoopCount:      cfg.FillerLoopCount,
	})

	return core.NewService(
		db, qu, rc, lc, sc,
		&transcribe.Scripted{},
		asm,
		cfg, pl, log,
	)
}

func newDatabase(opts *database.Options) (database.Database, error) {
	if opts == nil || opts.URL == "" {
		return database.NewMemory(), nil
	}
	switch {
	case strings.HasPrefix(opts.URL, "postgres://"):
		return database.NewPostgres(opts)
	case strings.HasPrefix(opts.URL, "badger://"):
		return database.NewBadger(strings.TrimPrefix(opts.URL, "badger://"))
	case strings.HasPrefix(opts.URL, "mem://"):
		return database.NewMemory(), nil
	}
	return nil, fmt.Errorf("%w: unknown database url %s", errors.ErrInvalidArg, opts.URL)
}
