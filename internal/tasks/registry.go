package tasks

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"sekolahku_echo/internal/models"
)

// JobHandler is the function signature for a job handler. It receives the
// full job row so handlers can read arguments and retry limits, and
// returns a result map that is persisted into the run history.
type JobHandler func(ctx context.Context, db *gorm.DB, job models.ScheduledJob) (map[string]interface{}, error)

// Registry stores the mapping of job names to handlers
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]JobHandler
}

// GlobalRegistry is the default global registry
var GlobalRegistry = &Registry{
	handlers: make(map[string]JobHandler),
}

// Register adds a handler for a job name
func (r *Registry) Register(name string, handler JobHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// Get retrieves a handler for a job name
func (r *Registry) Get(name string) (JobHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[name]
	return handler, ok
}

// RegisterHandler is a helper to register to the global registry
func RegisterHandler(name string, handler JobHandler) {
	GlobalRegistry.Register(name, handler)
}

// GetHandler is a helper to get from the global registry
func GetHandler(name string) (JobHandler, bool) {
	return GlobalRegistry.Get(name)
}
