package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/sketchgraph/pkg/cache"
	"github.com/matzehuels/sketchgraph/pkg/diagram"
	"github.com/matzehuels/sketchgraph/pkg/errors"
)

// Defaults for the Anthropic Messages API client.
const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 4096

	apiVersion     = "2023-06-01"
	requestTimeout = 120 * time.Second

	// responseTTL bounds how long a cached generation response is reused.
	responseTTL = 24 * time.Hour
)

// systemPrompt instructs the model to answer with nothing but the raw
// graph JSON.
const systemPrompt = `You convert a description of a process or system into a node-and-edge diagram.
Respond with a single JSON object and nothing else, shaped as:
{"nodes": [{"id": "...", "type": "rectangle|ellipse|diamond", "text": "..."}], "edges": [{"from": "...", "to": "...", "label": "..."}]}
Use short node text. Use diamond nodes for decisions and ellipse nodes for start/end states. Every edge must reference node ids that appear in the nodes array.`

// Config configures the generation client.
type Config struct {
	APIKey    string
	Model     string      // defaults to DefaultModel
	BaseURL   string      // defaults to DefaultBaseURL; tests point this at a local server
	MaxTokens int         // defaults to DefaultMaxTokens
	Cache     cache.Cache // optional response cache; nil disables caching
}

// Client calls the Anthropic Messages API to generate raw graphs.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a generation client. The API key is not checked here;
// a missing key fails the individual Generate call, not the session.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: requestTimeout},
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Generate sends the prompt and parses the response into a raw graph.
// Responses are cached by (model, prompt) when a cache is configured, so
// repeating an identical prompt does not spend another API call.
func (c *Client) Generate(ctx context.Context, prompt string) (diagram.RawGraph, error) {
	if c.cfg.APIKey == "" {
		return diagram.RawGraph{}, errors.New(errors.ErrCodeMissingCredentials,
			"no generation API key configured; set it in the config file or the SKETCHGRAPH_API_KEY environment variable")
	}

	var key string
	if c.cfg.Cache != nil {
		key = cache.Key("genai", c.cfg.Model, prompt)
		if data, ok, _ := c.cfg.Cache.Get(ctx, key); ok {
			if graph, err := ParseRawGraph(string(data)); err == nil {
				return graph, nil
			}
			// A cached entry that no longer parses is dropped, not trusted.
			_ = c.cfg.Cache.Delete(ctx, key)
		}
	}

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return diagram.RawGraph{}, err
	}

	graph, err := ParseRawGraph(text)
	if err != nil {
		return diagram.RawGraph{}, err
	}

	if c.cfg.Cache != nil {
		_ = c.cfg.Cache.Set(ctx, key, []byte(text), responseTTL)
	}
	return graph, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		System:    systemPrompt,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode generation request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "build generation request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "generation request failed")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "read generation response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.New(errors.ErrCodeNetwork, "generation service returned status %d", resp.StatusCode)
	}

	var decoded messagesResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", errors.Wrap(errors.ErrCodeMalformedResponse, err, "generation response is not valid JSON")
	}
	if len(decoded.Content) == 0 || decoded.Content[0].Text == "" {
		return "", errors.New(errors.ErrCodeMalformedResponse, "generation response carried no content")
	}
	return decoded.Content[0].Text, nil
}

// ParseRawGraph extracts the raw graph from a model response. The model is
// asked for bare JSON but sometimes wraps it in prose or a code fence, so
// parsing starts at the first '{' and ends at the last '}'. A response
// whose JSON lacks a "nodes" array is malformed.
func ParseRawGraph(text string) (diagram.RawGraph, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return diagram.RawGraph{}, errors.New(errors.ErrCodeMalformedResponse, "generation response contains no JSON object")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &envelope); err != nil {
		return diagram.RawGraph{}, errors.Wrap(errors.ErrCodeMalformedResponse, err, "generation response is not valid JSON")
	}

	nodesRaw, ok := envelope["nodes"]
	if !ok {
		return diagram.RawGraph{}, errors.New(errors.ErrCodeMalformedResponse, "generation response is missing the nodes array")
	}

	var graph diagram.RawGraph
	if err := json.Unmarshal(nodesRaw, &graph.Nodes); err != nil {
		return diagram.RawGraph{}, errors.Wrap(errors.ErrCodeMalformedResponse, err, "generation response nodes field is not an array")
	}
	if edgesRaw, ok := envelope["edges"]; ok {
		if err := json.Unmarshal(edgesRaw, &graph.Edges); err != nil {
			return diagram.RawGraph{}, errors.Wrap(errors.ErrCodeMalformedResponse, err, "generation response edges field is not an array")
		}
	}
	return graph, nil
}
