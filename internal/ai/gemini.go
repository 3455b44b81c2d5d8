package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiClient struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

func NewGeminiClient() *GeminiClient {
	return &GeminiClient{http: &http.Client{}, apiKey: os.Getenv("GEMINI_API_KEY"), baseURL: geminiBaseURL}
}
func (c *GeminiClient) Name() string { return "gemini" }

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenReq struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type geminiGenResp struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

func (c *GeminiClient) Do(ctx context.Context, req Request) (Response, error) {
	if c.apiKey == "" {
		return Response{}, errors.New("missing GEMINI_API_KEY")
	}

	// Images first, instruction last, mirroring the document order the
	// prompt describes.
	var parts []geminiPart
	for _, img := range req.Images {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{MIMEType: img.MIME, Data: img.Base64}})
	}
	parts = append(parts, geminiPart{Text: req.Prompt})

	payload := geminiGenReq{Contents: []geminiContent{{Parts: parts}}}
	payload.GenerationConfig.Temperature = 0

	body, _ := json.Marshal(payload)
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, req.Model)
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	httpReq.Header.Set("x-goog-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Status text and body stay in the message so retry classification
		// can inspect them.
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Response{}, fmt.Errorf("gemini: %d %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), bytes.TrimSpace(b))
	}

	var r geminiGenResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return Response{}, err
	}
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return Response{}, errors.New("gemini: no candidates")
	}

	return Response{
		Text:      r.Candidates[0].Content.Parts[0].Text,
		TokensIn:  r.UsageMetadata.PromptTokenCount,
		TokensOut: r.UsageMetadata.CandidatesTokenCount,
	}, nil
}
