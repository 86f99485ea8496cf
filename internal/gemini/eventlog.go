package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jpagaduan/nqeshgen/internal/store"
)

// EventLogClient is a decorator that records every generation request as
// an event in the local store.
type EventLogClient struct {
	Client
	events store.EventRepo
	runID  string
}

// WithEventLog wraps a Client with request event logging. runID tags all
// events written by this process invocation.
func WithEventLog(c Client, events store.EventRepo, runID string) Client {
	return &EventLogClient{Client: c, events: events, runID: runID}
}

func (l *EventLogClient) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.Client.Generate(ctx, req)

	event := store.RequestEvent{
		RunID:       l.runID,
		Timestamp:   start,
		Purpose:     purpose,
		Model:       l.Client.ModelID(),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		event.PromptTokens = resp.Usage.PromptTokens
		event.CachedTokens = resp.Usage.CachedTokens
		event.OutputTokens = resp.Usage.OutputTokens
		event.Model = resp.Model
		event.ResponseBody = string(resp.Content)
	}

	if err != nil {
		event.ErrorMessage = err.Error()
	}

	// Log the event but don't fail the request if logging fails.
	if logErr := l.events.Append(ctx, event); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log request event: %v\n", logErr)
	}

	return resp, err
}

// serializeRequest builds a readable representation of the request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	if req.CacheName != "" {
		fmt.Fprintf(&b, "[cache: %s]\n\n", req.CacheName)
	}

	for _, f := range req.Files {
		fmt.Fprintf(&b, "[file: %s (%s)]\n", f.Name, f.MIMEType)
	}
	if len(req.Files) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("[user]\n")
	b.WriteString(req.Prompt)
	b.WriteString("\n")

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			fmt.Fprintf(&b, "\n[schema: %s]\n", req.Schema.Name)
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
