package hn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hn_reader/internal/domain"
)

const (
	DefaultBaseURL = "https://hacker-news.firebaseio.com"
	apiVersion     = "v0"
	maxBodyBytes   = 4 << 20
)

// Config holds HN API client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Source talks to the Hacker News Firebase API. Every call issues exactly
// one request; retrying is the caller's business.
type Source struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: baseURL,
		logger:  logger.With("source", "hn"),
	}
}

// ListURL returns the list endpoint for category.
func (s *Source) ListURL(category domain.Category) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, apiVersion, category.Endpoint())
}

// ItemURL returns the item endpoint for id.
func (s *Source) ItemURL(id domain.StoryID) string {
	return fmt.Sprintf("%s/%s/item/%d.json", s.baseURL, apiVersion, id)
}

// StoryIDs fetches the ordered ID list for category.
func (s *Source) StoryIDs(ctx context.Context, category domain.Category) ([]domain.StoryID, error) {
	url := s.ListURL(category)

	body, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var ids []domain.StoryID
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}

	s.logger.Debug("fetched story list", "category", category, "count", len(ids))
	return ids, nil
}

// Story fetches one item.
func (s *Source) Story(ctx context.Context, id domain.StoryID) (*domain.Story, error) {
	url := s.ItemURL(id)

	body, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, &DecodeError{URL: url, Err: ErrNotFound}
	}

	var story domain.Story
	if err := json.Unmarshal(body, &story); err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}

	return &story, nil
}

func (s *Source) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hn_reader/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}

	return body, nil
}
