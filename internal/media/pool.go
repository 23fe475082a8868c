package media

import (
	"context"

	"github.com/rs/zerolog"
)

type encodeJob struct {
	data   []byte
	result chan encodeResult
}

type encodeResult struct {
	renditions map[string][]byte
	err        error
}

// Pool runs re-encoding on a bounded set of goroutines so CPU-heavy work
// never runs on a request-serving task. Callers block until their job
// completes or their context is done.
type Pool struct {
	encoder Encoder
	jobs    chan encodeJob
	log     zerolog.Logger
}

func NewPool(encoder Encoder, workers int, log zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = 2
	}
	p := &Pool{
		encoder: encoder,
		jobs:    make(chan encodeJob),
		log:     log,
	}
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	for job := range p.jobs {
		renditions, err := p.encoder.EncodeRenditions(job.data)
		job.result <- encodeResult{renditions: renditions, err: err}
	}
}

// Encode submits a source image and waits for its renditions.
func (p *Pool) Encode(ctx context.Context, data []byte) (map[string][]byte, error) {
	job := encodeJob{data: data, result: make(chan encodeResult, 1)}

	select {
	case p.jobs <- job:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-job.result:
		return res.renditions, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the workers once queued jobs drain.
func (p *Pool) Close() {
	close(p.jobs)
}
