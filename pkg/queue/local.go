package queue

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Shubhamxshah/arora-the-interview-app/internal/utils"
)

// Local dispatches tasks on goroutines in the calling process, the
// fire-and-forget model of the single-binary deployment. Nothing is
// durable: tasks die with the process.
type Local struct {
	log *slog.Logger

	lock     sync.RWMutex
	handlers map[string]func(payload []byte) error

	wg   sync.WaitGroup
	done chan struct{}
}

func NewLocal(log *slog.Logger) *Local {
	if log == nil {
		log = slog.Default()
	}
	return &Local{
		log:      log,
		handlers: map[string]func(payload []byte) error{},
		done:     make(chan struct{}),
	}
}

func (l *Local) Register(task string, handler func(payload []byte) error) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.handlers[task] = handler
	return nil
}

// Enqueue hands the payload to the task's handler on a new goroutine and
// returns immediately. Handler errors are logged; they never reach the
// caller (the handler's own error boundary owns failing the interview).
func (l *Local) Enqueue(task string, payload []byte) (string, error) {
	l.lock.RLock()
	handler, ok := l.handlers[task]
	l.lock.RUnlock()
	if !ok {
		return "", fmt.Errorf("no handler registered for task %s", task)
	}

	id := utils.NewRandomID()
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := handler(payload); err != nil {
			l.log.Error("task handler failed", "task", task, "queue_task_id", id, "err", err)
		}
	}()
	return id, nil
}

func (l *Local) Run() error {
	<-l.done
	return nil
}

func (l *Local) Close() error {
	l.wg.Wait()
	select {
	case <-l.done:
	default:
		close(l.done)
	}
	return nil
}
