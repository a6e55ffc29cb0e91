package ghub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orgServer(t *testing.T, repos []map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orgs/class-2026/repos", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, "[]")
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(repos))
	}))
}

func TestListOrgRepos(t *testing.T) {
	srv := orgServer(t, []map[string]string{
		{"name": "midterm-exam-atm-alice", "clone_url": "https://github.com/class-2026/midterm-exam-atm-alice.git"},
		{"name": "syllabus", "clone_url": "https://github.com/class-2026/syllabus.git"},
	})
	defer srv.Close()

	client := NewClient("test-token", WithBaseURL(srv.URL))
	repos, err := client.ListOrgRepos(context.Background(), "class-2026")
	require.NoError(t, err)
	require.Len(t, repos, 2)

	assert.Equal(t, "midterm-exam-atm-alice", repos[0].Name)
	// The token is embedded so clones of private repos work
	assert.Contains(t, repos[0].CloneURL, "x-access-token:test-token@github.com")
}

func TestListOrgReposRequiresOrg(t *testing.T) {
	client := NewClient("")
	_, err := client.ListOrgRepos(context.Background(), "")
	require.Error(t, err)
}

func TestListOrgReposErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad", WithBaseURL(srv.URL))
	_, err := client.ListOrgRepos(context.Background(), "class-2026")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestOrgSourcePrefixFilter(t *testing.T) {
	srv := orgServer(t, []map[string]string{
		{"name": "midterm-exam-atm-alice", "clone_url": "https://github.com/class-2026/midterm-exam-atm-alice.git"},
		{"name": "midterm-exam-atm-bob", "clone_url": "https://github.com/class-2026/midterm-exam-atm-bob.git"},
		{"name": "syllabus", "clone_url": "https://github.com/class-2026/syllabus.git"},
	})
	defer srv.Close()

	client := NewClient("test-token", WithBaseURL(srv.URL))
	source := NewOrgSource(client, "class-2026", "midterm-exam-atm-")

	repos, err := source.ListRepos(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "midterm-exam-atm-alice", repos[0].Name)
	assert.Equal(t, "midterm-exam-atm-bob", repos[1].Name)
}

func TestAuthCloneURLPassthrough(t *testing.T) {
	client := NewClient("")
	url := "https://github.com/class-2026/repo.git"
	assert.Equal(t, url, client.authCloneURL(url))

	withToken := NewClient("tok")
	assert.Equal(t, "git@github.com:class-2026/repo.git", withToken.authCloneURL("git@github.com:class-2026/repo.git"))
}
