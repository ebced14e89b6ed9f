// Package github reads workspace documents through the GitHub contents API.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public GitHub API.
const DefaultBaseURL = "https://api.github.com"

// Timeout bounds each request.
const Timeout = 10 * time.Second

// maxBody caps how much of a response is read (the contents API serves
// files up to 1MB inline, base64 grows that by a third).
const maxBody = 2 << 20

// Fetcher reads files from one branch of one repository.
type Fetcher struct {
	BaseURL string
	Token   string
	Repo    string
	Branch  string

	client *http.Client
	log    *zap.Logger
}

// NewFetcher returns a Fetcher against the public API. log may be nil.
func NewFetcher(token, repo, branch string, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		BaseURL: DefaultBaseURL,
		Token:   token,
		Repo:    repo,
		Branch:  branch,
		client:  &http.Client{Timeout: Timeout},
		log:     log.With(zap.String("repo", repo), zap.String("branch", branch)),
	}
}

type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GetFile returns the decoded content of path. Any failure yields
// ("", false); the reason is logged at debug level only.
func (f *Fetcher) GetFile(ctx context.Context, path string) (string, bool) {
	text, err := f.getFile(ctx, path)
	if err != nil {
		f.log.Debug("workspace file unavailable", zap.String("path", path), zap.Error(err))
		return "", false
	}
	f.log.Debug("workspace file fetched", zap.String("path", path), zap.Int("bytes", len(text)))
	return text, true
}

func (f *Fetcher) getFile(ctx context.Context, path string) (string, error) {
	u := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s",
		strings.TrimRight(f.BaseURL, "/"), f.Repo, strings.TrimLeft(path, "/"), url.QueryEscape(f.Branch))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if f.Token != "" {
		req.Header.Set("Authorization", "token "+f.Token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body contentsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if body.Encoding != "" && body.Encoding != "base64" {
		return "", fmt.Errorf("unsupported encoding %q", body.Encoding)
	}

	// GitHub wraps the payload at 60 columns.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("decode content: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("content is not UTF-8")
	}
	return string(raw), nil
}
