// Package workers runs the application's background jobs. Each job
// implements Worker and is started and stopped through the Workers
// aggregate.
package workers

import "context"

// Worker is a background job with an explicit lifecycle.
type Worker interface {
	// Start launches the job in its own goroutine and returns immediately.
	// The job stops when ctx is done or Stop is called.
	Start(ctx context.Context)

	// Stop cancels the job and waits for the current iteration to finish.
	Stop()
}
