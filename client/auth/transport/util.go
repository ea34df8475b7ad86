package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// pendingRequest is a replayable form of an outgoing request.
type pendingRequest struct {
	id      string
	ctx     context.Context
	request *http.Request
	body    []byte
	token   string // access token attached on the last send
	retried bool
}

func newPendingRequest(r *http.Request) (*pendingRequest, error) {
	ret := &pendingRequest{
		id:      uuid.NewString(),
		ctx:     r.Context(),
		request: r,
	}
	// buffer body for replay
	if r.Body != nil && r.Body != http.NoBody {
		data, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to buffer request body: %w", err)
		}
		ret.body = data
	}
	return ret, nil
}

// build clones the original request with token attached; the caller's request is never mutated.
func (p *pendingRequest) build(token string) *http.Request {
	p.token = token
	cloned := p.request.Clone(p.ctx)
	if p.body != nil {
		body := p.body
		cloned.Body = io.NopCloser(bytes.NewReader(body))
		cloned.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		cloned.ContentLength = int64(len(body))
	}
	if cloned.Header.Get("Content-Type") == "" {
		cloned.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		cloned.Header.Set("Authorization", "Bearer "+token)
	}
	return cloned
}

// discard drains and closes a response that is not handed back to the caller.
func discard(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
