package queue

import (
	"context"
	"sync"
	"time"

	"github.com/hibiken/asynq"
)

const (
	asynqWorkQueue = "arora:pipeline"

	// a pipeline run covers question generation, up to ~150s of render
	// polling, downloads and two ffmpeg passes; give it plenty of room.
	asynqTaskTimeout = 30 * time.Minute
)

// Asynq is a redis-backed queue; pipeline runs survive a process restart.
// An interview whose run died mid-stage stays where it was, runs are
// never resumed.
type Asynq struct {
	opts *Options

	cli *asynq.Client

	lock sync.Mutex
	mux  *asynq.ServeMux
	srv  *asynq.Server
}

func NewAsynq(opts *Options) (*Asynq, error) {
	cli := asynq.NewClient(asynq.RedisClientOpt{Addr: opts.URL, TLSConfig: opts.TLSConfig})
	return &Asynq{opts: opts, cli: cli}, nil
}

func (a *Asynq) Register(task string, handler func(payload []byte) error) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.mux == nil {
		a.buildServer()
	}
	a.mux.HandleFunc(task, func(ctx context.Context, t *asynq.Task) error {
		return handler(t.Payload())
	})
	return nil
}

func (a *Asynq) Enqueue(task string, payload []byte) (string, error) {
	info, err := a.cli.Enqueue(
		asynq.NewTask(task, payload),
		asynq.Queue(asynqWorkQueue),
		asynq.MaxRetry(0), // failure is terminal for the interview, never re-run
		asynq.Timeout(asynqTaskTimeout),
	)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

func (a *Asynq) Run() error {
	a.lock.Lock()
	if a.mux == nil {
		a.buildServer()
	}
	a.lock.Unlock()
	return a.srv.Run(a.mux)
}

func (a *Asynq) Close() error {
	if a.srv != nil {
		a.srv.Stop()
		a.srv.Shutdown()
	}
	return a.cli.Close()
}

func (a *Asynq) buildServer() {
	a.mux = asynq.NewServeMux()
	a.srv = asynq.NewServer(
		asynq.RedisClientOpt{Addr: a.opts.URL, TLSConfig: a.opts.TLSConfig},
		asynq.Config{
			// runs are long and mostly waiting on external services;
			// a small amount of concurrency goes a long way
			Concurrency: 4,
			Queues:      map[string]int{asynqWorkQueue: 1},
		},
	)
}
