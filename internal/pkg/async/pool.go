// Package async runs a batch of named tasks concurrently with a bounded
// degree of parallelism and collects their results by name.
package async

import (
	"context"
	"sync"
)

// Task is a named unit of work.
type Task struct {
	Name    string
	Execute func() (interface{}, error)
}

// Result holds whatever a task produced, or its error.
type Result struct {
	Name string
	Data interface{}
	Err  error
}

// Pool bounds how many tasks run at once.
type Pool struct {
	workerCount int
}

func NewPool(workerCount int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{workerCount: workerCount}
}

// Execute runs all tasks, at most workerCount at a time, and returns results
// keyed by task name. If the context is cancelled before every task has been
// scheduled, the map contains only the tasks that ran; callers can compare
// its length against the task count to detect a partial batch.
func (p *Pool) Execute(ctx context.Context, tasks []Task) map[string]Result {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]Result, len(tasks))
	)

	sem := make(chan struct{}, p.workerCount)

	for _, task := range tasks {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return results
		}

		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			defer func() { <-sem }()

			data, err := t.Execute()

			mu.Lock()
			results[t.Name] = Result{Name: t.Name, Data: data, Err: err}
			mu.Unlock()
		}(task)
	}

	wg.Wait()
	return results
}
