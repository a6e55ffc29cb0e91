// Package msteams delivers grade reports to students over Microsoft Teams
// one-on-one chats using the Graph API.
package msteams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gradekit/gradekit/internal/contract"
)

const (
	defaultGraphURL = "https://graph.microsoft.com/v1.0"
	defaultLoginURL = "https://login.microsoftonline.com"

	// maxMessageChars is the practical Teams limit for one chat message.
	maxMessageChars = 28000
)

// Client talks to the Graph API with an app-only (client credentials) token.
type Client struct {
	http     *http.Client
	graphURL string
	loginURL string
	cfg      contract.GraphConfig

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoints overrides the Graph and login endpoints, mainly for tests.
func WithEndpoints(graphURL, loginURL string) Option {
	return func(c *Client) {
		c.graphURL = strings.TrimRight(graphURL, "/")
		c.loginURL = strings.TrimRight(loginURL, "/")
	}
}

// NewClient creates a Graph client from the validated configuration.
func NewClient(cfg contract.GraphConfig, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: 30 * time.Second},
		graphURL: defaultGraphURL,
		loginURL: defaultLoginURL,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// accessToken returns a cached client-credentials token, refreshing it when
// it is within a minute of expiring.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.token, nil
	}
	if c.cfg.TenantID == "" || c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", fmt.Errorf("graph tenant, client id and client secret are required")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("scope", "https://graph.microsoft.com/.default")

	tokenURL := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.loginURL, url.PathEscape(c.cfg.TenantID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("graph token request failed with status %s", resp.Status)
	}

	var reply struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("cannot decode graph token reply: %w", err)
	}
	if reply.AccessToken == "" {
		return "", fmt.Errorf("graph token reply carried no access token")
	}
	c.token = reply.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(reply.ExpiresIn) * time.Second)
	return c.token, nil
}

// post sends one authenticated JSON request and decodes the reply into v.
func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("graph: unexpected status %s for %s", resp.Status, path)
	}
	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// chatMember is one participant in a one-on-one chat creation payload.
type chatMember struct {
	ODataType string   `json:"@odata.type"`
	Roles     []string `json:"roles"`
	UserBind  string   `json:"user@odata.bind"`
}

// createChat creates (or fetches) the one-on-one chat between the instructor
// and the student and returns its id.
func (c *Client) createChat(ctx context.Context, studentEmail string) (string, error) {
	bind := func(email string) string {
		return fmt.Sprintf("https://graph.microsoft.com/v1.0/users('%s')", email)
	}
	payload := map[string]any{
		"chatType": "oneOnOne",
		"members": []chatMember{
			{ODataType: "#microsoft.graph.aadUserConversationMember", Roles: []string{"owner"}, UserBind: bind(c.cfg.Instructor)},
			{ODataType: "#microsoft.graph.aadUserConversationMember", Roles: []string{"owner"}, UserBind: bind(studentEmail)},
		},
	}

	var reply struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/chats", payload, &reply); err != nil {
		return "", fmt.Errorf("cannot create chat with %s: %w", studentEmail, err)
	}
	if reply.ID == "" {
		return "", fmt.Errorf("chat creation with %s returned no id", studentEmail)
	}
	return reply.ID, nil
}

// sendChatMessage posts one HTML message into a chat.
func (c *Client) sendChatMessage(ctx context.Context, chatID, html string) error {
	payload := map[string]any{
		"body": map[string]string{
			"contentType": "html",
			"content":     html,
		},
	}
	return c.post(ctx, fmt.Sprintf("/chats/%s/messages", chatID), payload, nil)
}

// Notifier delivers rendered reports over Teams chats.
type Notifier struct {
	client *Client
}

// NewNotifier wraps a Graph client as a report notifier.
func NewNotifier(client *Client) *Notifier {
	return &Notifier{client: client}
}

// SendReport posts the rendered report HTML into a one-on-one chat with the
// student. Oversized reports are split into numbered parts because Teams
// rejects messages past its size limit.
func (n *Notifier) SendReport(ctx context.Context, student string, html string) error {
	chatID, err := n.client.createChat(ctx, student)
	if err != nil {
		return err
	}

	parts := splitMessage(html, maxMessageChars)
	for i, part := range parts {
		if len(parts) > 1 {
			part = fmt.Sprintf("<p><strong>Part %d of %d</strong></p>%s", i+1, len(parts), part)
		}
		if err := n.client.sendChatMessage(ctx, chatID, part); err != nil {
			return fmt.Errorf("cannot send report part %d to %s: %w", i+1, student, err)
		}
	}
	return nil
}

// splitMessage cuts html into chunks no larger than limit, preferring tag
// boundaries so markup stays well formed.
func splitMessage(html string, limit int) []string {
	if len(html) <= limit {
		return []string{html}
	}
	var parts []string
	for len(html) > limit {
		cut := strings.LastIndex(html[:limit], "</div>")
		if cut > 0 {
			cut += len("</div>")
		} else {
			cut = limit
		}
		parts = append(parts, html[:cut])
		html = html[cut:]
	}
	if len(html) > 0 {
		parts = append(parts, html)
	}
	return parts
}
