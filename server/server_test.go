package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm/testutil"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/model"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
)

const testPlanPayload = `{
	"rooms": [
		{"id": "master", "name": "Master Bedroom", "type": "room", "x": 2, "y": 4, "width": 4, "height": 3},
		{"id": "kitchen", "name": "Kitchen", "type": "room", "x": 6.5, "y": 4, "width": 3, "height": 2},
		{"id": "living", "name": "Living Room", "type": "room", "x": 2, "y": 8, "width": 4, "height": 3}
	],
	"designLog": ["Initial layout"]
}`

const testCritiquePayload = `{
	"spatialEfficiency": 0.9, "circulationQuality": 0.9,
	"naturalLighting": 0.9, "privacyGradient": 0.9,
	"aestheticBalance": 0.9, "overallConfidence": 0.9,
	"critiques": [], "strengths": []
}`

// newTestCompleter answers every role with a converging script. The
// optional gate blocks spatial calls until released.
func newTestCompleter(gate chan struct{}) *testutil.MockLLMClient {
	return &testutil.MockLLMClient{
		RespondFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			resp := func(content string) *llm.Response {
				return &llm.Response{Content: content, ModelKey: req.Model, Model: req.Model}
			}
			switch req.Role {
			case model.RoleInput:
				return resp(`{"adjacencies": []}`), nil
			case model.RoleSpatial:
				if gate != nil {
					select {
					case <-gate:
					case <-ctx.Done():
						return nil, ctx.Err()
					}
				}
				return resp(testPlanPayload), nil
			case model.RoleCritic:
				return resp(testCritiquePayload), nil
			case model.RoleCost:
				return resp(`{"bom": [], "totalCostRange": {"min": 1, "max": 2, "currency": "INR"}}`), nil
			case model.RoleFurniture:
				return resp(`{"furniture": []}`), nil
			}
			return resp("{}"), nil
		},
	}
}

func newTestServer(t *testing.T, gate chan struct{}, opts ...Option) *httptest.Server {
	t.Helper()
	srv := New(newTestCompleter(gate), model.NewDefaultRegistry(), opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func validGenerateBody() map[string]any {
	return map[string]any{
		"plotWidth":    12,
		"plotDepth":    18,
		"requirements": []string{"master bedroom", "kitchen", "living room"},
		"userId":       "tester",
	}
}

func submitJob(t *testing.T, baseURL string) string {
	t.Helper()
	resp := postJSON(t, baseURL+"/api/generate", validGenerateBody())
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var out struct {
		JobID string `json:"jobId"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.JobID)
	return out.JobID
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/generate", map[string]any{
		"plotWidth": -3, "plotDepth": 18, "requirements": []string{"kitchen"},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/generate", map[string]any{
		"plotWidth": 12, "plotDepth": 18, "requirements": []string{},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateAndPollStatus(t *testing.T) {
	ts := newTestServer(t, nil)
	jobID := submitJob(t, ts.URL)

	var job struct {
		Status string `json:"status"`
		Result *struct {
			Converged bool `json:"converged"`
			Plan      struct {
				Rooms []plan.Room `json:"rooms"`
			} `json:"plan"`
		} `json:"result"`
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(ts.URL + "/api/generate/" + jobID + "/status")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&job))
		resp.Body.Close()

		if job.Status == "completed" || job.Status == "failed" {
			break
		}
		require.True(t, time.Now().Before(deadline), "job did not finish in time")
		time.Sleep(20 * time.Millisecond)
	}

	require.Equal(t, "completed", job.Status)
	require.NotNil(t, job.Result)
	assert.True(t, job.Result.Converged)
	assert.Len(t, job.Result.Plan.Rooms, 3)
}

func TestStatusUnknownJob(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/generate/no-such-job/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// sseEvent is one parsed stream event with its raw payload for
// byte-equality checks.
type sseEvent struct {
	Type string
	Raw  string
}

func readStream(t *testing.T, url string) []sseEvent {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var events []sseEvent
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		raw := strings.TrimPrefix(line, "data: ")
		var envelope struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal([]byte(raw), &envelope))
		events = append(events, sseEvent{Type: envelope.Type, Raw: raw})
	}
	return events
}

func TestStreamLifecycleAndTerminalReplay(t *testing.T) {
	gate := make(chan struct{})
	ts := newTestServer(t, gate)
	jobID := submitJob(t, ts.URL)

	streamURL := ts.URL + "/api/generate/" + jobID + "/stream"

	// Release the pipeline once the stream is connecting.
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(gate)
	}()

	first := readStream(t, streamURL)
	require.NotEmpty(t, first)
	assert.Equal(t, "connected", first[0].Type)
	assert.Equal(t, "completed", first[len(first)-1].Type)

	var firstCompleted string
	completedCount := 0
	for _, ev := range first {
		if ev.Type == "completed" {
			completedCount++
			firstCompleted = ev.Raw
		}
	}
	require.Equal(t, 1, completedCount)

	// Reconnect: connected plus exactly one identical terminal replay.
	second := readStream(t, streamURL)
	require.Len(t, second, 2)
	assert.Equal(t, "connected", second[0].Type)
	assert.Equal(t, "completed", second[1].Type)
	assert.Equal(t, firstCompleted, second[1].Raw, "replayed terminal payload equals the original")
}

func TestStreamUnknownJob(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/generate/missing/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPerUserConcurrencyCap(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	ts := newTestServer(t, gate, WithConcurrencyLimits(1, 10))

	submitJob(t, ts.URL)

	// Second submission for the same user while the first still runs.
	resp := postJSON(t, ts.URL+"/api/generate", validGenerateBody())
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// A different user is unaffected.
	body := validGenerateBody()
	body["userId"] = "someone-else"
	resp = postJSON(t, ts.URL+"/api/generate", body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ok", out["status"])
	assert.NotEmpty(t, out["timestamp"])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	submitJob(t, ts.URL)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "archgen_jobs_created_total 1")
}

func TestEstimateWrapper(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/estimate", map[string]any{
		"config": map[string]any{
			"plotWidth": 12, "plotDepth": 18,
			"requirements": []string{"kitchen"},
		},
		"rooms": []map[string]any{
			{"id": "kitchen", "name": "Kitchen", "type": "room", "x": 6.5, "y": 4, "width": 3, "height": 2},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		TotalCostRange plan.CostRange `json:"totalCostRange"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "INR", out.TotalCostRange.Currency)
}

func TestFurnitureWrapperValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/furniture", map[string]any{
		"plotWidth": 12, "plotDepth": 18, "rooms": []any{},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeImageRejectsBadBase64(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/analyze-image", map[string]any{
		"mimeType": "image/png",
		"data":     "not-base64!!!",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMethodRouting(t *testing.T) {
	ts := newTestServer(t, nil)

	// GET on a POST-only route.
	resp, err := http.Get(ts.URL + "/api/generate")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStreamHoldsWhileRunning(t *testing.T) {
	gate := make(chan struct{})
	ts := newTestServer(t, gate)
	jobID := submitJob(t, ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/generate/%s/stream", ts.URL, jobID), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Only the connected event arrives while the pipeline is gated.
	scanner := bufio.NewScanner(resp.Body)
	var seen []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			var envelope struct {
				Type string `json:"type"`
			}
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &envelope))
			seen = append(seen, envelope.Type)
			if envelope.Type == "completed" {
				break
			}
		}
	}

	require.NotEmpty(t, seen)
	assert.Equal(t, "connected", seen[0])
	assert.NotContains(t, seen, "completed")

	close(gate)
}
