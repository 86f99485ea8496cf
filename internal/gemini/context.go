package gemini

import "context"

type contextKey string

const purposeKey contextKey = "gemini_purpose"

// WithPurpose attaches a purpose label to the context for event logging,
// e.g. "question-gen" or "question-validate".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
