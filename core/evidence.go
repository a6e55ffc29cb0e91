package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gradekit/gradekit/schema"
)

// FSEvidenceCollector inspects a checked-out repository on disk for the
// files and code features a milestone expects. Unreadable files count as
// absent; evidence collection never fails the grading run.
type FSEvidenceCollector struct{}

// NewFSEvidenceCollector creates a filesystem-backed evidence collector.
func NewFSEvidenceCollector() *FSEvidenceCollector {
	return &FSEvidenceCollector{}
}

// CheckFiles reports which of the milestone's expected files exist in the
// repository. Entries containing a glob meta character are treated as
// patterns, and the folder-set sentinel is satisfied when at least two of
// the milestone's folders exist.
func (c *FSEvidenceCollector) CheckFiles(repoPath string, def schema.MilestoneDefinition) (found, missing []string) {
	for _, pattern := range def.Files {
		switch {
		case pattern == FolderSetSentinel:
			existing := countFolders(repoPath, def.Folders)
			if existing >= 2 {
				found = append(found, fmt.Sprintf("%d folders found", existing))
			} else {
				missing = append(missing, "folder structure incomplete")
			}
		case strings.ContainsAny(pattern, "*?["):
			matches, err := filepath.Glob(filepath.Join(repoPath, filepath.FromSlash(pattern)))
			if err == nil && len(matches) > 0 {
				found = append(found, pattern)
			} else {
				missing = append(missing, pattern)
			}
		default:
			if pathExists(filepath.Join(repoPath, filepath.FromSlash(pattern))) {
				found = append(found, pattern)
			} else {
				missing = append(missing, pattern)
			}
		}
	}
	return found, missing
}

// CollectFeatures scans the milestone's probe files for its keyword groups.
// A group counts as matched when any variant appears, case-insensitively.
// Milestones with a folder list also emit a structural signal when at least
// one folder exists.
func (c *FSEvidenceCollector) CollectFeatures(repoPath string, def schema.MilestoneDefinition) []schema.FeatureSignal {
	var signals []schema.FeatureSignal

	if len(def.KeywordGrps) > 0 {
		for _, probe := range def.ProbeFiles {
			content, err := os.ReadFile(filepath.Join(repoPath, filepath.FromSlash(probe)))
			if err != nil {
				continue
			}
			lowered := strings.ToLower(string(content))
			matched := 0
			for _, group := range def.KeywordGrps {
				for _, kw := range group {
					if strings.Contains(lowered, strings.ToLower(kw)) {
						matched++
						break
					}
				}
			}
			if matched > 0 {
				signals = append(signals, schema.FeatureSignal{
					Label:   probe,
					Matched: matched,
					Total:   len(def.KeywordGrps),
				})
			}
		}
	}

	if len(def.Folders) > 0 {
		if existing := countFolders(repoPath, def.Folders); existing > 0 {
			signals = append(signals, schema.FeatureSignal{
				Label:   fmt.Sprintf("project structure: %d folders created", existing),
				Matched: existing,
			})
		}
	}

	return signals
}

func countFolders(repoPath string, folders []string) int {
	var existing int
	for _, folder := range folders {
		if pathExists(filepath.Join(repoPath, folder)) {
			existing++
		}
	}
	return existing
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
