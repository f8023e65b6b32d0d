// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meshintel/litradar/internal/retry"
	"github.com/meshintel/litradar/pkg/types"
)

// geminiAPIBase is the Gemini REST endpoint. Package-level var for test
// substitution with httptest servers.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient calls the Gemini generateContent API with the google_search
// tool enabled when grounding is requested.
type GeminiClient struct {
	APIKey string
	Model  string
	Client *http.Client
	Retry  retry.Config
	Logger *zap.Logger
}

// NewGeminiClient returns a client with the default retry policy: two extra
// attempts with exponential backoff starting at one second.
func NewGeminiClient(cfg types.AIConfig, logger *zap.Logger) *GeminiClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 2
	}
	rc := retry.DefaultConfig()
	rc.MaxAttempts = maxRetries + 1
	rc.Logger = logger

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiClient{
		APIKey: cfg.APIKey,
		Model:  model,
		Client: &http.Client{Timeout: 2 * time.Minute},
		Retry:  rc,
		Logger: logger,
	}
}

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
	Tools    []geminiTool    `json:"tools,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

// geminiResponse is the generateContent response body, reduced to the fields
// the pipeline reads: candidate text and grounding metadata.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		GroundingMetadata *groundingMetadata `json:"groundingMetadata,omitempty"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

type groundingMetadata struct {
	GroundingChunks []struct {
		Web *struct {
			URI   string `json:"uri"`
			Title string `json:"title"`
		} `json:"web,omitempty"`
	} `json:"groundingChunks"`
	GroundingSupports []struct {
		Segment struct {
			Text string `json:"text"`
		} `json:"segment"`
		GroundingChunkIndices []int `json:"groundingChunkIndices"`
	} `json:"groundingSupports"`
	WebSearchQueries []string `json:"webSearchQueries"`
}

// Complete calls the API. With grounding requested, failed grounded calls are
// retried per the policy; if the budget is exhausted, one ungrounded call is
// attempted before the error propagates, so callers get text without
// citations rather than nothing.
func (c *GeminiClient) Complete(ctx context.Context, prompt string, opts Options) (Result, error) {
	res, err := retry.DoWithResult(ctx, c.Retry, func() (Result, error) {
		return c.doRequest(ctx, prompt, opts.Grounding)
	})
	if err == nil {
		return res, nil
	}

	if opts.Grounding {
		c.Logger.Warn("grounded completion exhausted retries, falling back ungrounded",
			zap.Error(err))
		if fallback, ferr := c.doRequest(ctx, prompt, false); ferr == nil {
			fallback.Citations = nil
			return fallback, nil
		}
	}

	return Result{}, fmt.Errorf("completion failed: %w", err)
}

func (c *GeminiClient) doRequest(ctx context.Context, prompt string, grounded bool) (Result, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}
	if grounded {
		reqBody.Tools = []geminiTool{{GoogleSearch: &struct{}{}}}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", geminiAPIBase, c.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return Result{}, fmt.Errorf("decoding Gemini response: %w", err)
	}
	if gResp.Error != nil {
		return Result{}, fmt.Errorf("Gemini API error %d: %s", gResp.Error.Code, gResp.Error.Message)
	}
	if len(gResp.Candidates) == 0 {
		return Result{}, fmt.Errorf("Gemini API returned no candidates")
	}

	cand := gResp.Candidates[0]

	var text strings.Builder
	for _, part := range cand.Content.Parts {
		text.WriteString(part.Text)
	}

	result := Result{Text: text.String()}
	if cand.GroundingMetadata != nil {
		result.Citations = citationsFrom(cand.GroundingMetadata)
		c.Logger.Debug("grounded completion",
			zap.Int("citations", len(result.Citations)),
			zap.Strings("queries", cand.GroundingMetadata.WebSearchQueries))
	}

	return result, nil
}

// citationsFrom flattens grounding metadata into citations. Each web chunk
// becomes one citation; the first support segment referencing the chunk
// supplies the snippet.
func citationsFrom(gm *groundingMetadata) []types.Citation {
	snippets := make(map[int]string)
	for _, sup := range gm.GroundingSupports {
		for _, idx := range sup.GroundingChunkIndices {
			if _, ok := snippets[idx]; !ok && sup.Segment.Text != "" {
				snippets[idx] = sup.Segment.Text
			}
		}
	}

	var citations []types.Citation
	for i, chunk := range gm.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		citations = append(citations, types.Citation{
			URL:     chunk.Web.URI,
			Title:   chunk.Web.Title,
			Snippet: snippets[i],
		})
	}
	return citations
}
