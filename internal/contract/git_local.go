package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/gradekit/gradekit/schema"
)

// Field and record separators for the commit log format. Unit/record
// separator control characters cannot appear in commit metadata.
const (
	logFieldSep  = "\x1f"
	logRecordSep = "\x1e"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// ListCommits implements the GitClient interface. Commits come back oldest
// first with 1-based indexes, which is the ordering milestone pairing
// depends on.
func (c *LocalGitClient) ListCommits(ctx context.Context, repoPath string) ([]schema.CommitRecord, error) {
	args := []string{
		"log",
		"--reverse",
		"--date=unix",
		"--pretty=format:%H" + logFieldSep + "%ae" + logFieldSep + "%ad" + logFieldSep + "%B" + logRecordSep,
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return parseCommitLog(out)
}

// parseCommitLog turns the separator-delimited log output into records.
func parseCommitLog(out []byte) ([]schema.CommitRecord, error) {
	var commits []schema.CommitRecord
	for _, record := range strings.Split(string(out), logRecordSep) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		fields := strings.SplitN(record, logFieldSep, 4)
		if len(fields) != 4 {
			return nil, fmt.Errorf("malformed log record: %q", record)
		}
		epoch, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed commit date %q: %w", fields[2], err)
		}
		commits = append(commits, schema.CommitRecord{
			Index:       len(commits) + 1,
			Hash:        fields[0],
			AuthorEmail: fields[1],
			Message:     strings.TrimSpace(fields[3]),
			Timestamp:   time.Unix(epoch, 0),
		})
	}
	return commits, nil
}

// CommitDiff implements the GitClient interface. 'git show' diffs the root
// commit against the empty tree natively, so no special casing is needed.
func (c *LocalGitClient) CommitDiff(ctx context.Context, repoPath string, hash string) (string, error) {
	out, err := c.Run(ctx, repoPath, "show", hash, "--format=", "--patch", "--no-color")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Clone implements the GitClient interface.
func (c *LocalGitClient) Clone(ctx context.Context, url string, dest string) error {
	_, err := c.Run(ctx, ".", "clone", url, dest)
	return err
}

// Pull implements the GitClient interface.
func (c *LocalGitClient) Pull(ctx context.Context, repoPath string) error {
	_, err := c.Run(ctx, repoPath, "pull", "--ff-only")
	return err
}
