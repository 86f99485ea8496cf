package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GenAIClient implements Client using the Google Gemini SDK.
type GenAIClient struct {
	client *genai.Client
	model  string
}

// Config holds the settings needed to construct a GenAIClient.
type Config struct {
	APIKey string
	Model  string
}

// NewClient creates a new Gemini-backed client.
func NewClient(ctx context.Context, cfg Config) (*GenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GenAIClient{
		client: client,
		model:  cfg.Model,
	}, nil
}

func (c *GenAIClient) UploadFile(ctx context.Context, path string) (FileRef, error) {
	f, err := c.client.Files.UploadFromPath(ctx, path, nil)
	if err != nil {
		return FileRef{}, mapError(err)
	}
	return fileRef(f), nil
}

func (c *GenAIClient) GetFile(ctx context.Context, name string) (FileRef, error) {
	f, err := c.client.Files.Get(ctx, name, nil)
	if err != nil {
		return FileRef{}, mapError(err)
	}
	return fileRef(f), nil
}

func (c *GenAIClient) DeleteFile(ctx context.Context, name string) error {
	if _, err := c.client.Files.Delete(ctx, name, nil); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *GenAIClient) CreateCache(ctx context.Context, params CacheParams) (CacheRef, error) {
	cfg := &genai.CreateCachedContentConfig{
		DisplayName: params.DisplayName,
		Contents:    []*genai.Content{{Role: "user", Parts: fileParts(params.Files)}},
		TTL:         params.TTL,
	}
	if params.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: params.System}},
		}
	}

	cached, err := c.client.Caches.Create(ctx, c.model, cfg)
	if err != nil {
		return CacheRef{}, mapError(err)
	}

	return CacheRef{
		Name:        cached.Name,
		DisplayName: cached.DisplayName,
		ExpireTime:  cached.ExpireTime,
	}, nil
}

func (c *GenAIClient) DeleteCache(ctx context.Context, name string) error {
	if _, err := c.client.Caches.Delete(ctx, name, nil); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *GenAIClient) Generate(ctx context.Context, req Request) (*Response, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
	}

	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}

	// Configure structured output.
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = buildSchema(req.Schema.Definition)
	}

	var parts []*genai.Part
	if req.CacheName != "" {
		// The cached bundle already carries the documents and system
		// instruction; only the new prompt is sent.
		config.CachedContent = req.CacheName
	} else {
		if req.System != "" {
			config.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: req.System}},
			}
		}
		parts = fileParts(req.Files)
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})

	contents := []*genai.Content{{Role: "user", Parts: parts}}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, mapError(err)
	}

	content := json.RawMessage(result.Text())

	if mapStopReason(result) == "max_tokens" {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}

	// Validate against schema if provided.
	if req.Schema != nil {
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}

	resp := &Response{
		Content:    content,
		Model:      c.model,
		StopReason: mapStopReason(result),
	}

	if result.UsageMetadata != nil {
		resp.Usage = Usage{
			PromptTokens: int(result.UsageMetadata.PromptTokenCount),
			CachedTokens: int(result.UsageMetadata.CachedContentTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
		}
	}

	return resp, nil
}

func (c *GenAIClient) ModelID() string {
	return c.model
}

func fileRef(f *genai.File) FileRef {
	return FileRef{
		Name:     f.Name,
		URI:      f.URI,
		MIMEType: f.MIMEType,
		State:    string(f.State),
	}
}

func fileParts(files []FileRef) []*genai.Part {
	out := make([]*genai.Part, 0, len(files))
	for _, f := range files {
		out = append(out, &genai.Part{
			FileData: &genai.FileData{
				FileURI:  f.URI,
				MIMEType: f.MIMEType,
			},
		})
	}
	return out
}

// buildSchema converts a JSON Schema definition map to a genai.Schema.
func buildSchema(def map[string]any) *genai.Schema {
	schema := &genai.Schema{}

	if t, ok := def["type"].(string); ok {
		schema.Type = mapType(t)
	}
	if desc, ok := def["description"].(string); ok {
		schema.Description = desc
	}

	if props, ok := def["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema)
		for k, v := range props {
			if propDef, ok := v.(map[string]any); ok {
				schema.Properties[k] = buildSchema(propDef)
			}
		}
	}

	if req, ok := def["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	if enums, ok := def["enum"].([]any); ok {
		for _, e := range enums {
			if s, ok := e.(string); ok {
				schema.Enum = append(schema.Enum, s)
			}
		}
	}

	if items, ok := def["items"].(map[string]any); ok {
		schema.Items = buildSchema(items)
	}

	return schema
}

func mapType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func mapStopReason(result *genai.GenerateContentResponse) string {
	if len(result.Candidates) > 0 {
		switch result.Candidates[0].FinishReason {
		case "STOP":
			return "end"
		case "MAX_TOKENS":
			return "max_tokens"
		}
	}
	return "end"
}

func mapError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.Code >= 500:
			return &ErrServiceUnavailable{Err: err}
		}
	}
	return &ErrServiceUnavailable{Err: err}
}
