package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MockResponse is a canned generation response for the MockClient.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockClient is a deterministic Client for testing. Generate returns
// canned responses in FIFO order and records all requests. File and cache
// operations are tracked in memory so state-machine behavior can be
// asserted without a network.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse

	// Calls records every Generate request in order.
	Calls []Request

	// Uploaded records every file path passed to UploadFile.
	Uploaded []string

	// DeletedFiles and DeletedCaches record remote deletions.
	DeletedFiles  []string
	DeletedCaches []string

	// UploadErr, CacheErr fail the corresponding operations when set.
	UploadErr error
	CacheErr  error

	nextFile  int
	nextCache int
}

// NewMockClient creates a MockClient with the given canned responses.
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

func (m *MockClient) UploadFile(_ context.Context, path string) (FileRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UploadErr != nil {
		return FileRef{}, m.UploadErr
	}

	m.nextFile++
	m.Uploaded = append(m.Uploaded, path)
	name := fmt.Sprintf("files/mock-%d", m.nextFile)
	return FileRef{
		Name:     name,
		URI:      "https://mock.local/" + name,
		MIMEType: "application/pdf",
		State:    "ACTIVE",
	}, nil
}

func (m *MockClient) GetFile(_ context.Context, name string) (FileRef, error) {
	return FileRef{Name: name, URI: "https://mock.local/" + name, State: "ACTIVE"}, nil
}

func (m *MockClient) DeleteFile(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletedFiles = append(m.DeletedFiles, name)
	return nil
}

func (m *MockClient) CreateCache(_ context.Context, params CacheParams) (CacheRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CacheErr != nil {
		return CacheRef{}, m.CacheErr
	}

	m.nextCache++
	return CacheRef{
		Name:        fmt.Sprintf("cachedContents/mock-%d", m.nextCache),
		DisplayName: params.DisplayName,
		ExpireTime:  time.Now().Add(params.TTL),
	}, nil
}

func (m *MockClient) DeleteCache(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletedCaches = append(m.DeletedCaches, name)
	return nil
}

// Generate returns the next canned response or ErrServiceUnavailable if
// the queue is empty.
func (m *MockClient) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrServiceUnavailable{Err: nil}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockClient) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockClient) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
