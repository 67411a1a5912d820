package cron

import "context"

// Job is one maintenance task the worker runs each cycle. Run must be safe
// to call repeatedly.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs in execution order. Nil jobs are dropped at
// registration.
type Registry struct {
	jobs []Job
}

func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{}
	for _, job := range jobs {
		registry.Register(job)
	}
	return registry
}

// Register appends a job to the run order.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	r.jobs = append(r.jobs, job)
}

// Jobs returns the registered jobs in the order they were added.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}
