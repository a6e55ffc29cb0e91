package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/internal/ghub"
	"github.com/gradekit/gradekit/internal/moodle"
	"github.com/gradekit/gradekit/internal/msteams"
	"github.com/gradekit/gradekit/internal/outwriter"
	"github.com/gradekit/gradekit/internal/report"
	"github.com/gradekit/gradekit/schema"
)

// ExecuteGradeRepo grades one checked-out repository and prints the report.
// It serves as the main entry point for the 'grade' command.
func ExecuteGradeRepo(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.RepoPath == "" {
		return errors.New("a repository path is required")
	}

	catalog, err := ResolveCatalog(cfg)
	if err != nil {
		return err
	}
	scorer, err := BuildScorer(cfg)
	if err != nil {
		return err
	}

	pipeline := NewGradePipeline(cfg, contract.NewLocalGitClient(), scorer, catalog)
	repoName := filepath.Base(cfg.RepoPath)
	rep, err := pipeline.GradeLocal(ctx, repoName, cfg.RepoPath)
	if err != nil {
		return err
	}

	recordRun(cfg, mgr, []schema.GradeReport{rep})

	renderer := report.NewRenderer(catalog.Definitions())
	if err := renderer.WriteFiles(filepath.Join(cfg.Workspace, repoName), rep, cfg); err != nil {
		contract.LogWarn("cannot write report artifacts", err)
	}

	return outwriter.WriteGradeReport(rep, cfg)
}

// ExecuteGradeBatch grades every assignment repository in the configured
// organization and prints the summary. It serves as the main entry point for
// the 'batch' command.
func ExecuteGradeBatch(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.Org == "" {
		return errors.New("--org is required for batch grading")
	}

	catalog, err := ResolveCatalog(cfg)
	if err != nil {
		return err
	}
	scorer, err := BuildScorer(cfg)
	if err != nil {
		return err
	}

	source := ghub.NewOrgSource(ghub.NewClient(cfg.GitHubToken), cfg.Org, cfg.RepoPrefix)
	grader := NewBatchGrader(cfg, contract.NewLocalGitClient(), source, NewGatedScorer(scorer, cfg.ScorerGate), catalog)

	summary, err := grader.Run(ctx)
	if err != nil {
		return err
	}

	recordRun(cfg, mgr, summary.Reports)

	renderer := report.NewRenderer(catalog.Definitions())
	for _, rep := range summary.Reports {
		if err := renderer.WriteFiles(filepath.Join(cfg.Workspace, rep.Repo), rep, cfg); err != nil {
			contract.LogWarn(fmt.Sprintf("cannot write report artifacts for %s", rep.Repo), err)
		}
	}
	if err := outwriter.WriteGradebookCSV(summary.Reports, filepath.Join(cfg.Workspace, "gradebook.csv")); err != nil {
		contract.LogWarn("cannot write gradebook", err)
	}

	return outwriter.WriteBatchSummary(summary, cfg, summary.Duration)
}

// ExecuteCatalogShow prints the active milestone catalog.
func ExecuteCatalogShow(_ context.Context, cfg *contract.Config) error {
	catalog, err := ResolveCatalog(cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteCatalogDefinitions(catalog.Definitions(), catalog.Categories(), cfg)
}

// ExecutePolicyShow prints the active grading policy.
func ExecutePolicyShow(_ context.Context, cfg *contract.Config) error {
	return outwriter.WriteGradingPolicy(cfg.Policy, cfg)
}

// ExecuteGradeUpload pushes the latest recorded run's final scores to the
// Moodle gradebook.
func ExecuteGradeUpload(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.Moodle.BaseURL == "" || cfg.Moodle.Token == "" {
		return errors.New("moodle-url and moodle-token are required for grade upload")
	}

	records, err := latestRunReports(mgr)
	if err != nil {
		return err
	}

	uploader := moodle.NewUploader(moodle.NewClient(cfg.Moodle), cfg.Moodle.ActivityID)
	return uploadScores(ctx, uploader, records)
}

// uploadScores pushes each graded report's final score through the uploader.
// Repositories without submissions are skipped so missing students are not
// overwritten with zeros.
func uploadScores(ctx context.Context, uploader contract.GradeUploader, records []schema.GradeReportRecord) error {
	var failed int
	for _, r := range records {
		if r.Status != string(schema.StatusGraded) {
			contract.LogInfo("skipping upload for %s (%s)", r.Student, r.Status)
			continue
		}
		if err := uploader.UploadGrade(ctx, r.Student, r.FinalScore); err != nil {
			contract.LogWarn(fmt.Sprintf("upload failed for %s", r.Student), err)
			failed++
			continue
		}
		contract.LogInfo("uploaded %.2f for %s", r.FinalScore, r.Student)
	}
	if failed > 0 {
		return fmt.Errorf("%d grade upload(s) failed", failed)
	}
	return nil
}

// ExecuteGradeNotify delivers the latest recorded run's reports to students
// over Teams chats.
func ExecuteGradeNotify(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.Graph.TenantID == "" || cfg.Graph.Instructor == "" {
		return errors.New("graph credentials and graph-instructor are required for notifications")
	}

	catalog, err := ResolveCatalog(cfg)
	if err != nil {
		return err
	}
	reports, err := latestRunGradeReports(mgr, catalog)
	if err != nil {
		return err
	}

	notifier := msteams.NewNotifier(msteams.NewClient(cfg.Graph))
	renderer := report.NewRenderer(catalog.Definitions())
	return notifyStudents(ctx, notifier, renderer, cfg, reports)
}

// notifyStudents renders and sends one report per student.
func notifyStudents(ctx context.Context, notifier contract.Notifier, renderer *report.Renderer, cfg *contract.Config, reports []schema.GradeReport) error {
	var failed int
	for _, rep := range reports {
		html, err := renderer.RenderHTML(rep, cfg)
		if err != nil {
			return err
		}
		email := studentEmail(rep.Student, cfg.Graph.StudentDomain)
		if err := notifier.SendReport(ctx, email, html); err != nil {
			contract.LogWarn(fmt.Sprintf("notification failed for %s", email), err)
			failed++
			continue
		}
		contract.LogInfo("sent report for %s to %s", rep.Repo, email)
	}
	if failed > 0 {
		return fmt.Errorf("%d notification(s) failed", failed)
	}
	return nil
}

// studentEmail turns a bare student handle into an address on the configured
// domain. Handles that already look like emails pass through.
func studentEmail(student, domain string) string {
	if domain == "" || strings.Contains(student, "@") {
		return student
	}
	return student + "@" + domain
}

// recordRun archives one grading run. Archive failures never abort grading.
func recordRun(cfg *contract.Config, mgr contract.StoreManager, reports []schema.GradeReport) {
	if mgr == nil {
		return
	}
	store := mgr.GetGradeStore()
	if store == nil {
		return
	}

	params := map[string]any{
		"scorer":  string(cfg.Scorer),
		"org":     cfg.Org,
		"workers": cfg.Workers,
		"freeze":  cfg.Freeze,
	}
	runID, err := store.BeginRun(time.Now(), params)
	if err != nil {
		contract.LogWarn("cannot begin grade run", err)
		return
	}
	for _, rep := range reports {
		if err := store.RecordReport(runID, rep); err != nil {
			contract.LogWarn(fmt.Sprintf("cannot record report for %s", rep.Repo), err)
		}
	}
	if err := store.EndRun(runID, time.Now(), len(reports)); err != nil {
		contract.LogWarn("cannot end grade run", err)
	}
}

// latestRunReports returns the report rows of the most recent run.
func latestRunReports(mgr contract.StoreManager) ([]schema.GradeReportRecord, error) {
	if mgr == nil || mgr.GetGradeStore() == nil {
		return nil, errors.New("grade archive is not initialized")
	}
	store := mgr.GetGradeStore()

	all, err := store.GetAllReports()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errors.New("no recorded grade runs found. Run 'gradekit batch' first")
	}

	var lastRun int64
	for _, r := range all {
		if r.RunID > lastRun {
			lastRun = r.RunID
		}
	}
	var latest []schema.GradeReportRecord
	for _, r := range all {
		if r.RunID == lastRun {
			latest = append(latest, r)
		}
	}
	return latest, nil
}

// latestRunGradeReports reconstructs full grade reports for the most recent
// run from the archive rows, resolving milestone descriptions through the
// catalog.
func latestRunGradeReports(mgr contract.StoreManager, catalog *Catalog) ([]schema.GradeReport, error) {
	records, err := latestRunReports(mgr)
	if err != nil {
		return nil, err
	}
	scores, err := mgr.GetGradeStore().GetAllMilestoneScores()
	if err != nil {
		return nil, err
	}

	scoresByRepo := make(map[string][]schema.MilestoneScore)
	for _, s := range scores {
		if s.RunID != records[0].RunID {
			continue
		}
		desc := ""
		if def, ok := catalog.Get(s.MilestoneID); ok {
			desc = def.Desc
		}
		scoresByRepo[s.Repo] = append(scoresByRepo[s.Repo], schema.MilestoneScore{
			MilestoneID:  s.MilestoneID,
			Desc:         desc,
			QualityScore: s.QualityScore,
			Weight:       s.Weight,
			EarnedPoints: s.EarnedPoints,
			Remark:       s.Remark,
		})
	}

	reports := make([]schema.GradeReport, 0, len(records))
	for _, r := range records {
		reports = append(reports, schema.GradeReport{
			Repo:            r.Repo,
			Student:         r.Student,
			Status:          schema.RepoStatus(r.Status),
			RawScore:        r.RawScore,
			Adjustment:      r.Adjustment,
			FinalScore:      r.FinalScore,
			Letter:          schema.LetterGrade(r.Letter),
			GradedAt:        r.GradedAt,
			MilestoneScores: scoresByRepo[r.Repo],
		})
	}
	return reports, nil
}
