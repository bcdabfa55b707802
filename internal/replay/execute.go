package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tayzer/compareengine/internal/pipeline"
)

type sidecarHeaders struct {
	Headers map[string]string `json:"headers"`
}

// loadRequestTask reads one request's body and its optional sidecar
// headers file, exactly once (spec §4.7, "Each task reads its request
// bytes once").
func loadRequestTask(batchDir, relPath string) (pipeline.RequestPair, error) {
	body, err := os.ReadFile(filepath.Join(batchDir, relPath))
	if err != nil {
		return pipeline.RequestPair{}, fmt.Errorf("reading request %s: %w", relPath, err)
	}

	perHeaders := map[string]string{}
	if data, err := os.ReadFile(filepath.Join(batchDir, headersSidecarPath(relPath))); err == nil {
		var parsed sidecarHeaders
		if json.Unmarshal(data, &parsed) == nil {
			perHeaders = parsed.Headers
		}
	}

	return pipeline.RequestPair{
		RelativePath:      relPath,
		BodyBytes:         body,
		ContentType:       contentTypeFor(relPath),
		PerRequestHeaders: perHeaders,
	}, nil
}

// requestEndpoints carries the per-job endpoint URLs and global headers
// needed to execute every task; it is immutable for the lifetime of a job.
type requestEndpoints struct {
	endpointA, endpointB           string
	globalHeadersA, globalHeadersB map[string]string
}

type sendResult struct {
	status int
	body   []byte
	err    error
}

func send(ctx context.Context, client *http.Client, url string, body []byte, headers http.Header) sendResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return sendResult{err: err}
	}
	req.Header = headers.Clone()

	resp, err := client.Do(req)
	if err != nil {
		return sendResult{err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return sendResult{status: resp.StatusCode, err: err}
	}
	return sendResult{status: resp.StatusCode, body: respBody}
}

// executeRequestPair fans the request out to both endpoints in parallel
// under one shared deadline (the client's timeout, applied to ctx once for
// the pair), persists each successful response body to
// its deterministic on-disk path, and records the status pair (spec §4.7,
// §5). Requests that fail transport on either side produce no response
// files and leave RespPathA/RespPathB empty.
func executeRequestPair(ctx context.Context, client *http.Client, jobTmpRoot string, endpoints requestEndpoints, task pipeline.RequestPair) pipeline.ExecutionResult {
	start := time.Now()
	if client.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, client.Timeout)
		defer cancel()
	}
	headersA := mergeHeaders(endpoints.globalHeadersA, task.PerRequestHeaders)
	headersB := mergeHeaders(endpoints.globalHeadersB, task.PerRequestHeaders)

	var resB sendResult
	done := make(chan struct{})
	go func() {
		defer close(done)
		resB = send(ctx, client, joinURL(endpoints.endpointB, task.RelativePath), task.BodyBytes, headersB)
	}()
	resA := send(ctx, client, joinURL(endpoints.endpointA, task.RelativePath), task.BodyBytes, headersA)
	<-done

	result := pipeline.ExecutionResult{
		Request:    task,
		StatusA:    resA.status,
		StatusB:    resB.status,
		DurationMS: time.Since(start).Milliseconds(),
	}

	if resA.err != nil || resB.err != nil {
		result.Error = joinErrors(resA.err, resB.err)
		return result
	}

	sanitized := sanitizeRelPath(task.RelativePath)
	pathA := filepath.Join(jobTmpRoot, "endpointA", sanitized)
	pathB := filepath.Join(jobTmpRoot, "endpointB", sanitized)
	if err := persist(pathA, resA.body); err != nil {
		result.Error = err.Error()
		return result
	}
	if err := persist(pathB, resB.body); err != nil {
		result.Error = err.Error()
		return result
	}

	result.OK = true
	result.RespPathA = pathA
	result.RespPathB = pathB
	return result
}

func persist(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating response dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("writing response %s: %w", path, err)
	}
	return nil
}

func joinURL(endpoint, relPath string) string {
	return strings.TrimRight(endpoint, "/") + "/" + strings.TrimLeft(filepath.ToSlash(relPath), "/")
}

func joinErrors(a, b error) string {
	switch {
	case a != nil && b != nil:
		return fmt.Sprintf("endpoint A: %v; endpoint B: %v", a, b)
	case a != nil:
		return fmt.Sprintf("endpoint A: %v", a)
	case b != nil:
		return fmt.Sprintf("endpoint B: %v", b)
	default:
		return ""
	}
}

func readFileOrEmpty(path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}
