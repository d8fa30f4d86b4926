// Package testutil provides test utilities for the llm package.
// It includes mock implementations for testing LLM client interactions.
package testutil

import (
	"context"
	"sync"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/llm"
)

// MockLLMClient is a thread-safe mock LLM client for testing.
// It captures the requests passed to Complete() and returns configured
// responses in sequence.
//
// Usage:
//
//	// Single response mock
//	mock := &MockLLMClient{
//	    Responses: []*llm.Response{
//	        {Content: `{"result": "success"}`, ModelKey: "gemini-pro"},
//	    },
//	}
//
//	// Multiple responses (for multi-agent or retry testing)
//	mock := &MockLLMClient{
//	    Responses: []*llm.Response{
//	        {Content: `{"rooms": []}`, ModelKey: "gemini-pro"},
//	        {Content: `{"score": 0.8}`, ModelKey: "gemini-pro"},
//	    },
//	}
//
//	// Error response
//	mock := &MockLLMClient{
//	    Err: errors.New("connection failed"),
//	}
type MockLLMClient struct {
	mu               sync.Mutex
	capturedRequests []llm.Request
	Responses        []*llm.Response // Responses to return in sequence
	Err              error           // Error to return (takes precedence over Responses)

	// RespondFunc, when set, overrides Responses/Err entirely.
	RespondFunc func(ctx context.Context, req llm.Request) (*llm.Response, error)

	callCount     int
	responseIndex int
}

// Complete implements the llm.Completer interface.
// Returns the next response from Responses slice, or Err if set.
// Captures the request for verification in tests.
func (m *MockLLMClient) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	m.capturedRequests = append(m.capturedRequests, req)
	m.callCount++
	fn := m.RespondFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	if m.responseIndex < len(m.Responses) {
		resp := m.Responses[m.responseIndex]
		m.responseIndex++
		return resp, nil
	}

	// Default response if no responses configured
	return &llm.Response{Content: "{}", ModelKey: "test-model", Model: "test-model"}, nil
}

// CapturedRequests returns a copy of all requests passed to Complete().
func (m *MockLLMClient) CapturedRequests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.capturedRequests))
	copy(out, m.capturedRequests)
	return out
}

// LastRequest returns the most recent request, or a zero Request when
// Complete() was never called.
func (m *MockLLMClient) LastRequest() llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.capturedRequests) == 0 {
		return llm.Request{}
	}
	return m.capturedRequests[len(m.capturedRequests)-1]
}

// GetCallCount returns the number of times Complete() was called.
func (m *MockLLMClient) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset resets the mock's state (call count, captured requests, and
// response index). Useful for reusing the same mock instance across
// multiple test cases.
func (m *MockLLMClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.responseIndex = 0
	m.capturedRequests = nil
}
