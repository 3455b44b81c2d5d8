package ai

import (
	"context"
)

// Image is one base64-encoded page image attached to a request.
type Image struct {
	MIME   string
	Base64 string
}

// Request represents a vision inference request: page images plus one
// instruction block.
type Request struct {
	Model  string
	Images []Image
	Prompt string
}

// Response carries the model's free-text answer.
type Response struct {
	Text      string
	TokensIn  int
	TokensOut int
}

// Client interface for providers like Gemini, OpenAI.
type Client interface {
	Name() string
	Do(ctx context.Context, req Request) (Response, error)
}
