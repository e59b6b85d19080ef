package app

import (
	"sync"

	"gioui.org/app"

	"github.com/justyntemme/filedrop/internal/config"
	"github.com/justyntemme/filedrop/internal/fs"
	"github.com/justyntemme/filedrop/internal/store"
	"github.com/justyntemme/filedrop/internal/ui"
)

// SharedDeps holds references to shared dependencies that multiple controllers need.
// All controllers receive a pointer to this struct rather than copying fields.
type SharedDeps struct {
	Window *app.Window // nil in tests
	Config *config.Manager
	FS     *fs.System
	Store  *store.DB // nil when the journal is disabled
	UI     *ui.Renderer
	State  *StateOwner
	Tasks  *TaskQueue
}

func (d *SharedDeps) invalidate() {
	if d.Window != nil {
		d.Window.Invalidate()
	}
}

func (d *SharedDeps) toast(msg string, kind ui.ToastType) {
	if d.UI != nil {
		d.UI.ShowToast(msg, kind)
	}
}

// TaskQueue hands work from worker goroutines to the UI goroutine. Post
// never blocks, so a worker cannot stall behind a busy frame.
type TaskQueue struct {
	mu      sync.Mutex
	pending []func()
}

// Post queues fn for the next Drain
func (q *TaskQueue) Post(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Drain runs every queued task in order. Tasks posted while draining run on
// the next call.
func (q *TaskQueue) Drain() int {
	q.mu.Lock()
	tasks := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}
