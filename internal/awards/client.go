// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package awards looks up research awards for allocation projects and
// keeps only the awards whose PI and institution correspond to the project.
package awards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/allocations-xref/internal/httputil"
	"github.com/pdiddy/allocations-xref/internal/logging"
	"github.com/pdiddy/allocations-xref/pkg/types"
)

const (
	// DefaultBaseURL is where a locally run awards tool server listens.
	DefaultBaseURL = "http://localhost:3000"

	// DefaultTool is the remote operation that searches awards.
	DefaultTool = "search_nsf_awards"

	defaultLimit = 10
	maxErrorBody = 200
)

// Query is the argument set of one awards lookup. Exactly one of
// Personnel and Institution is normally set.
type Query struct {
	Personnel   string `json:"personnel,omitempty"`
	Institution string `json:"institution,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	PrimaryOnly bool   `json:"primary_only,omitempty"`
}

// Service performs one awards lookup and returns the report text.
type Service interface {
	Lookup(ctx context.Context, q Query) (string, error)
}

// HTTPService invokes the awards tool over HTTP: it POSTs
// {"arguments": Query} to <BaseURL>/tools/<Tool> and reads a tool result
// of the form {"content": [{"type": "text", "text": ...}], "isError": bool}.
type HTTPService struct {
	http *httputil.Retrier
	cfg  types.AwardsConfig
	log  *zap.Logger
}

// NewHTTPService creates an awards service client. Zero config values take
// defaults; a nil hc uses a client with cfg.Timeout.
func NewHTTPService(hc *http.Client, cfg types.AwardsConfig, log *zap.Logger) *HTTPService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Tool == "" {
		cfg.Tool = DefaultTool
	}
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	log = logging.OrNop(log)
	return &HTTPService{
		http: &httputil.Retrier{Client: hc, MaxRetries: cfg.MaxRetries, Logger: log},
		cfg:  cfg,
		log:  log,
	}
}

type toolRequest struct {
	Arguments Query `json:"arguments"`
}

type toolResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

// Lookup runs q against the remote tool. A transport failure, a non-200
// status, or a result flagged isError is returned as an error.
func (s *HTTPService) Lookup(ctx context.Context, q Query) (string, error) {
	body, err := json.Marshal(toolRequest{Arguments: q})
	if err != nil {
		return "", fmt.Errorf("encoding awards query: %w", err)
	}
	reqURL := s.cfg.BaseURL + "/tools/" + url.PathEscape(s.cfg.Tool)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.http.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("awards lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("awards lookup: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var tr toolResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("parsing awards response: %w", err)
	}
	var parts []string
	for _, c := range tr.Content {
		if c.Type == "" || c.Type == "text" {
			parts = append(parts, c.Text)
		}
	}
	text := strings.Join(parts, "\n")
	if tr.IsError {
		return "", fmt.Errorf("awards tool error: %s", truncate(text, maxErrorBody))
	}
	s.log.Debug("awards lookup",
		zap.String("personnel", q.Personnel),
		zap.String("institution", q.Institution),
		zap.Int("bytes", len(text)))
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
