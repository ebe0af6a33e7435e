package queue

// Queue carries pipeline runs. A run is enqueued exactly once per interview
// event (creation, candidate submission) and is never retried by the queue;
// a failed run parks the interview in FAILED and recovery is a human
// re-creating it.
type Queue interface {
	// Register a handler for a task type. Must be called before Run.
	Register(task string, handler func(payload []byte) error) error

	// Enqueue a task with an opaque payload. The caller is not blocked on
	// the handler; the returned id identifies the queued task (where the
	// backend supports that).
	Enqueue(task string, payload []byte) (string, error)

	// Run the queue & process tasks (via Register funcs). Blocks until
	// Close() is called. Backends that process in-caller (the local
	// queue) block without doing work.
	Run() error

	// Close & shutdown the queue.
	Close() error
}
