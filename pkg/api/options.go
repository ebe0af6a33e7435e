package api

import (
	"github.com/Shubhamxshah/arora-the-interview-app/internal/core"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/database"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/llm"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/queue"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/render"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/storage"
)

// Options passed to the arora API on creation.
type Options struct {
	// ConfigPath is the yaml deployment config (avatar catalog etc).
	// Empty means defaults.
	ConfigPath string

	// Database selects the interview store by URL scheme:
	// postgres://..., badger:///path, or mem:// (the default).
	Database *database.Options

	// Queue selects the task queue. An empty URL runs pipelines in
	// process; a redis address runs them through asynq workers.
	Queue *queue.Options

	Render  *render.Options
	LLM     *llm.Options
	Storage *storage.Options

	// Pipeline tunes poll cadence and scratch space.
	Pipeline *core.Options

	Debug bool
}

func OptionsDefault() *Options {
	return &Options{
		Database: &database.Options{},
		Queue:    &queue.Options{},
		Render:   &render.Options{},
		LLM:      &llm.Options{},
		Storage:  &storage.Options{},
		Pipeline: &core.Options{},
	}
}
