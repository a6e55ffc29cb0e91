// Package moodle is a client for the Moodle web services REST endpoint,
// covering user lookup and gradebook updates.
package moodle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gradekit/gradekit/internal/contract"
)

// restPath is the fixed Moodle web services entry point.
const restPath = "/webservice/rest/server.php"

// Client calls Moodle web service functions with a fixed token and course.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	course  int
}

// NewClient creates a client from the validated Moodle configuration.
func NewClient(cfg contract.MoodleConfig) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		course:  cfg.CourseID,
	}
}

// apiError is the error envelope Moodle returns with HTTP 200.
type apiError struct {
	Exception string `json:"exception"`
	Message   string `json:"message"`
	DebugInfo string `json:"debuginfo"`
}

// call posts one web service function and decodes the reply into v.
// Moodle reports failures inside a 200 response, so the error envelope is
// checked before the real decode.
func (c *Client) call(ctx context.Context, wsfunction string, params url.Values, v any) error {
	if c.baseURL == "" || c.token == "" {
		return fmt.Errorf("moodle base url and token are required")
	}

	form := url.Values{}
	form.Set("wstoken", c.token)
	form.Set("wsfunction", wsfunction)
	form.Set("moodlewsrestformat", "json")
	for key, vals := range params {
		for _, val := range vals {
			form.Add(key, val)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+restPath, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("moodle: unexpected status %s", resp.Status)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("moodle: cannot decode reply for %s: %w", wsfunction, err)
	}
	var envelope apiError
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Exception != "" {
		return fmt.Errorf("moodle api error for %s: %s", wsfunction, envelope.Message)
	}
	if v == nil {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// GetUserID resolves a Moodle username to its numeric user id via
// core_user_get_users.
func (c *Client) GetUserID(ctx context.Context, username string) (int, error) {
	params := url.Values{}
	params.Set("criteria[0][key]", "username")
	params.Set("criteria[0][value]", username)

	var reply struct {
		Users []struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	}
	if err := c.call(ctx, "core_user_get_users", params, &reply); err != nil {
		return 0, err
	}
	for _, u := range reply.Users {
		if u.Username == username {
			return u.ID, nil
		}
	}
	return 0, fmt.Errorf("moodle user %q not found", username)
}

// Uploader pushes final scores into one assignment's gradebook entry.
type Uploader struct {
	client     *Client
	activityID int
}

// NewUploader creates an uploader targeting the given assignment activity.
func NewUploader(client *Client, activityID int) *Uploader {
	return &Uploader{client: client, activityID: activityID}
}

// UploadGrade records a final score for one student using
// core_grades_update_grades. The student string is the Moodle username.
func (u *Uploader) UploadGrade(ctx context.Context, student string, score float64) error {
	userID, err := u.client.GetUserID(ctx, student)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("source", "mod/assign")
	params.Set("courseid", strconv.Itoa(u.client.course))
	params.Set("component", "mod_assign")
	params.Set("activityid", strconv.Itoa(u.activityID))
	params.Set("itemnumber", "0")
	params.Set("grades[0][studentid]", strconv.Itoa(userID))
	params.Set("grades[0][grade]", strconv.FormatFloat(score, 'f', 2, 64))

	if err := u.client.call(ctx, "core_grades_update_grades", params, nil); err != nil {
		return fmt.Errorf("cannot upload grade for %s: %w", student, err)
	}
	return nil
}
