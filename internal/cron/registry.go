package cron

import (
	"context"
	"fmt"
)

// Job is one unit of scheduled work. Name doubles as the metrics label.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds jobs in run order. Names are unique.
type Registry struct {
	jobs  []Job
	names map[string]struct{}
}

func NewRegistry(jobs ...Job) (*Registry, error) {
	r := &Registry{names: map[string]struct{}{}}
	for _, job := range jobs {
		if err := r.Register(job); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(job Job) error {
	if job == nil {
		return fmt.Errorf("nil job")
	}
	name := job.Name()
	if name == "" {
		return fmt.Errorf("job name required")
	}
	if _, dup := r.names[name]; dup {
		return fmt.Errorf("job %q registered twice", name)
	}
	r.names[name] = struct{}{}
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}

// Names lists the registered job names in run order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.jobs))
	for i, job := range r.jobs {
		out[i] = job.Name()
	}
	return out
}
