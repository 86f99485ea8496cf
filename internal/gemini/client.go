package gemini

import (
	"context"
	"encoding/json"
	"time"
)

// Client is the core abstraction for the Gemini API surface this tool uses:
// the Files API, the explicit context cache, and structured generation.
// Consumers call Generate with a Request and receive schema-validated JSON.
type Client interface {
	// UploadFile submits one local file to the Files API and returns its
	// remote handle. The file may still be in the PROCESSING state.
	UploadFile(ctx context.Context, path string) (FileRef, error)

	// GetFile fetches the current metadata for an uploaded file, used to
	// verify the file is accessible after upload.
	GetFile(ctx context.Context, name string) (FileRef, error)

	// DeleteFile removes an uploaded file from the remote service.
	DeleteFile(ctx context.Context, name string) error

	// CreateCache bundles uploaded files and a system instruction into one
	// reusable cached-content handle.
	CreateCache(ctx context.Context, params CacheParams) (CacheRef, error)

	// DeleteCache removes a cached-content handle from the remote service.
	DeleteCache(ctx context.Context, name string) error

	// Generate sends a prompt and returns a structured response. The
	// request's Schema field, when set, instructs the service to return
	// JSON conforming to that schema; the response Content is the
	// validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this client is configured to use.
	ModelID() string
}

// FileRef is the remote handle for one uploaded file.
type FileRef struct {
	// Name is the resource name, e.g. "files/abc123". Used for Get/Delete.
	Name string

	// URI is the download URI referenced in generation requests.
	URI string

	// MIMEType is the detected content type.
	MIMEType string

	// State is the processing state reported by the service
	// ("PROCESSING", "ACTIVE", "FAILED").
	State string
}

// CacheRef is the remote handle for one cached-content bundle.
type CacheRef struct {
	// Name is the resource name, e.g. "cachedContents/xyz".
	Name string

	// DisplayName is the human-readable label set at creation.
	DisplayName string

	// ExpireTime is when the service will discard the cache.
	ExpireTime time.Time
}

// CacheParams describes a cached-content bundle to create.
type CacheParams struct {
	// DisplayName labels the cache for later inspection.
	DisplayName string

	// System is the system instruction stored inside the cache.
	System string

	// Files are the uploaded documents to include.
	Files []FileRef

	// TTL is how long the service keeps the cache alive.
	TTL time.Duration
}

// Request describes one generation call.
type Request struct {
	// System is the system instruction. Must be empty when CacheName is
	// set: the cached bundle already carries it and the API rejects both.
	System string

	// Prompt is the user prompt text.
	Prompt string

	// Files are included as file parts when CacheName is empty. Ignored
	// when the cached context already holds the documents.
	Files []FileRef

	// CacheName references a cached-content handle to generate against.
	CacheName string

	// Schema is the JSON Schema the response must conform to. When set,
	// the service's native structured-output mechanism is used and the
	// response is additionally validated client-side.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema, kebab-case, e.g. "question-bank".
	Name string

	// Description is a human-readable summary of what the schema holds.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output. When a Schema was provided this is
	// the validated JSON object.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	PromptTokens int
	CachedTokens int
	OutputTokens int
	TotalTokens  int
}
