package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of an async rebuild job.
type JobStatus string

// JobStatus constants define the lifecycle states of a rebuild job.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// ErrRebuildRunning is returned when a rebuild is requested while another
// one is still in progress. The cache file has no protection against
// concurrent writers, so rebuilds are single-flight.
var ErrRebuildRunning = errors.New("a rebuild is already running")

// RebuildJob tracks one asynchronous index rebuild.
type RebuildJob struct {
	ID          string     `json:"id"`
	Status      JobStatus  `json:"status"`
	Total       int        `json:"total"`
	Done        int        `json:"done"`
	Records     int        `json:"records"`
	Skipped     int        `json:"skipped"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	mu sync.RWMutex
}

// Snapshot returns a copy of the job safe for JSON encoding.
func (j *RebuildJob) Snapshot() RebuildJob {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return RebuildJob{
		ID:          j.ID,
		Status:      j.Status,
		Total:       j.Total,
		Done:        j.Done,
		Records:     j.Records,
		Skipped:     j.Skipped,
		Error:       j.Error,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
}

func (j *RebuildJob) setProgress(done, total int) {
	j.mu.Lock()
	j.Done = done
	j.Total = total
	j.mu.Unlock()
}

func (j *RebuildJob) finish(records, skipped int, err error) {
	now := time.Now()
	j.mu.Lock()
	defer j.mu.Unlock()
	j.CompletedAt = &now
	if err != nil {
		j.Status = JobStatusFailed
		j.Error = err.Error()
		return
	}
	j.Status = JobStatusCompleted
	j.Records = records
	j.Skipped = skipped
}

// JobManager owns the rebuild jobs started through the web API.
type JobManager struct {
	mu     sync.Mutex
	jobs   map[string]*RebuildJob
	active *RebuildJob
}

// NewJobManager creates an empty job manager.
func NewJobManager() *JobManager {
	return &JobManager{jobs: make(map[string]*RebuildJob)}
}

// Get returns a job by ID, or nil if unknown.
func (m *JobManager) Get(id string) *RebuildJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[id]
}

// StartRebuild clears the cache and rebuilds the index in a background
// goroutine. Only one rebuild may run at a time.
func (m *JobManager) StartRebuild(app *App) (*RebuildJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		if status := m.active.Snapshot().Status; status == JobStatusPending || status == JobStatusRunning {
			return nil, ErrRebuildRunning
		}
	}

	job := &RebuildJob{
		ID:        uuid.NewString(),
		Status:    JobStatusPending,
		StartedAt: time.Now(),
	}
	m.jobs[job.ID] = job
	m.active = job

	go m.runRebuild(job, app)
	return job, nil
}

func (m *JobManager) runRebuild(job *RebuildJob, app *App) {
	job.mu.Lock()
	job.Status = JobStatusRunning
	job.mu.Unlock()

	if err := app.Store.Clear(); err != nil {
		job.finish(0, 0, err)
		return
	}
	app.Invalidate()

	app.Builder.OnProgress(func(done, total int) {
		job.setProgress(done, total)
	})
	idx, skipped, err := app.Builder.Build(context.Background(), app.FolderID)
	if err != nil {
		job.finish(0, 0, err)
		return
	}
	if err := app.Store.Save(idx); err != nil {
		job.finish(0, 0, err)
		return
	}
	app.SetIndex(idx)

	job.finish(idx.Count(), skipped, nil)
}
