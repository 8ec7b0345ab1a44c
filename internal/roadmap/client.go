// Package roadmap generates goal roadmaps through the Gemini generateContent
// REST endpoint.
package roadmap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/limbo/questboard/pkg/entity"
)

var (
	ErrNoAPIKey      = errors.New("roadmap api key is not set")
	ErrEmptyResponse = errors.New("model returned no content")
	ErrNoJSON        = errors.New("model response contains no json object")
)

type Config struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateRoadmap asks the model for a roadmap of goal.
func (c *Client) GenerateRoadmap(ctx context.Context, goal *entity.Goal) (*entity.Roadmap, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	body, err := sonic.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: Prompt(goal)}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.Endpoint, "/"), url.PathEscape(c.cfg.Model), url.QueryEscape(c.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err = sonic.Unmarshal(data, &gr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}
	return Parse(gr.Candidates[0].Content.Parts[0].Text)
}

// Parse extracts the outermost JSON object from model text and decodes it.
func Parse(text string) (*entity.Roadmap, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, ErrNoJSON
	}
	var roadmap entity.Roadmap
	if err := sonic.UnmarshalString(text[start:end+1], &roadmap); err != nil {
		return nil, fmt.Errorf("parsing roadmap: %w", err)
	}
	return &roadmap, nil
}
