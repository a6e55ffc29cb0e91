// Package ghub is a minimal wrapper around GitHub's REST API v3.
// It covers just the endpoints batch grading requires.
package ghub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gradekit/gradekit/schema"
)

const defaultBaseURL = "https://api.github.com"

// orgReposPerPage is the GitHub maximum page size.
const orgReposPerPage = 100

// Client lists assignment repositories for an organization.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests and GitHub
// Enterprise installs.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewClient returns a ready-to-use GitHub API client. token may be empty,
// but unauthenticated requests are subject to very low rate limits and
// cannot see private assignment repositories.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OrgSource adapts a Client into a repo source for one organization,
// keeping only repositories whose name carries the assignment prefix.
type OrgSource struct {
	client *Client
	org    string
	prefix string
}

// NewOrgSource creates a source over org. An empty prefix keeps every repo.
func NewOrgSource(client *Client, org, prefix string) *OrgSource {
	return &OrgSource{client: client, org: org, prefix: prefix}
}

// ListRepos returns the assignment repositories of the organization.
func (s *OrgSource) ListRepos(ctx context.Context) ([]schema.RemoteRepo, error) {
	repos, err := s.client.ListOrgRepos(ctx, s.org)
	if err != nil {
		return nil, err
	}
	if s.prefix == "" {
		return repos, nil
	}
	var kept []schema.RemoteRepo
	for _, r := range repos {
		if strings.HasPrefix(r.Name, s.prefix) {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

// apiRepo is the subset of the GitHub repository payload we consume.
type apiRepo struct {
	Name     string `json:"name"`
	CloneURL string `json:"clone_url"`
}

// ListOrgRepos fetches every repository of an organization, following
// pagination until a short page arrives.
func (c *Client) ListOrgRepos(ctx context.Context, org string) ([]schema.RemoteRepo, error) {
	if org == "" {
		return nil, fmt.Errorf("github org is required")
	}

	var all []schema.RemoteRepo
	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/orgs/%s/repos?per_page=%d&page=%d&type=all",
			c.baseURL, url.PathEscape(org), orgReposPerPage, page)

		var repos []apiRepo
		if err := c.get(ctx, u, &repos); err != nil {
			return nil, fmt.Errorf("cannot list repos for org %s: %w", org, err)
		}
		for _, r := range repos {
			all = append(all, schema.RemoteRepo{Name: r.Name, CloneURL: c.authCloneURL(r.CloneURL)})
		}
		if len(repos) < orgReposPerPage {
			break
		}
	}
	return all, nil
}

// authCloneURL embeds the token into an HTTPS clone URL so the git
// subprocess can fetch private assignment repos without a credential helper.
func (c *Client) authCloneURL(cloneURL string) string {
	if c.token == "" {
		return cloneURL
	}
	u, err := url.Parse(cloneURL)
	if err != nil || u.Scheme != "https" {
		return cloneURL
	}
	u.User = url.UserPassword("x-access-token", c.token)
	return u.String()
}

// get executes an authenticated GET request and decodes JSON into v.
func (c *Client) get(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "gradekit")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("github: unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
