package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultMaxBody caps how much of a reply body is kept.
const DefaultMaxBody = 1 << 20

// Reply is what a server sent back to a single request.
type Reply struct {
	Status  int
	Header  http.Header
	Body    []byte
	Elapsed time.Duration
}

// OK reports a 2xx status.
func (r Reply) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Text is the body as the server sent it.
func (r Reply) Text() string {
	return string(r.Body)
}

// Executor sends prepared requests and collects replies.
type Executor struct {
	client  *http.Client
	timeout time.Duration
	maxBody int64
}

type ExecutorOption func(*Executor)

// WithTimeout bounds each request. Zero leaves only the client's own limits.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = timeout }
}

func WithClient(client *http.Client) ExecutorOption {
	return func(e *Executor) { e.client = client }
}

// WithMaxBody caps the kept body; anything past n bytes is dropped.
func WithMaxBody(n int64) ExecutorOption {
	return func(e *Executor) { e.maxBody = n }
}

func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		client:  New(DefaultConfig()),
		maxBody: DefaultMaxBody,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do sends req. A reply with a status is returned even when reading its body fails.
func (e *Executor) Do(ctx context.Context, req *http.Request) (Reply, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := e.client.Do(req.WithContext(ctx))
	if err != nil {
		return Reply{Elapsed: time.Since(start)}, err
	}
	defer resp.Body.Close()

	reply := Reply{Status: resp.StatusCode, Header: resp.Header.Clone()}
	reader := io.Reader(resp.Body)
	if e.maxBody > 0 {
		reader = io.LimitReader(resp.Body, e.maxBody)
	}
	reply.Body, err = io.ReadAll(reader)
	reply.Elapsed = time.Since(start)
	if err != nil {
		return reply, fmt.Errorf("read reply body: %w", err)
	}
	return reply, nil
}
