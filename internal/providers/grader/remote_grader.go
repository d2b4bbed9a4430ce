package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yoockh/resumeprep/internal/assessment"
)

const maxRemoteBody = 4 << 20

// RemoteGrader posts the request to an external grading endpoint and decodes
// the raw payload it answers with.
type RemoteGrader struct {
	url    string
	client *http.Client
}

func NewRemoteGrader(url string, timeout time.Duration) *RemoteGrader {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &RemoteGrader{url: url, client: &http.Client{Timeout: timeout}}
}

func (g *RemoteGrader) Name() string { return "remote" }

func (g *RemoteGrader) Grade(ctx context.Context, req Request) (assessment.Payload, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return assessment.Payload{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return assessment.Payload{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return assessment.Payload{}, fmt.Errorf("remote grader: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return assessment.Payload{}, fmt.Errorf("remote grader: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return assessment.Payload{}, fmt.Errorf("%w: remote grader status %d", assessment.ErrGraderFailure, resp.StatusCode)
	}
	return assessment.DecodePayload(raw)
}
