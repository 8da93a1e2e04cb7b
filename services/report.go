package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"issuelogtotrello/models"
)

// Report は1回の同期処理の結果をまとめたものです
type Report struct {
	RunID      string         `yaml:"run_id"`
	StartedAt  time.Time      `yaml:"started_at"`
	FinishedAt time.Time      `yaml:"finished_at"`
	DryRun     bool           `yaml:"dry_run"`
	Workbook   string         `yaml:"workbook"`
	Worksheet  string         `yaml:"worksheet"`
	Summary    models.Summary `yaml:"summary"`
	Current    int            `yaml:"current"`
	Total      int            `yaml:"total"`
	Error      string         `yaml:"error,omitempty"`
	Rows       []RowOutcome   `yaml:"rows"`
}

// NewReport は同期処理の結果からレポートを作成します
func NewReport(r *Reconciler, startedAt time.Time, summary models.Summary, runErr error) *Report {
	report := &Report{
		RunID:      r.RunID(),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		DryRun:     r.config.Sync.DryRun,
		Workbook:   r.config.Input.FilePath,
		Worksheet:  r.config.Input.Worksheet,
		Summary:    summary,
		Current:    summary.Current(),
		Total:      summary.Total(),
		Rows:       r.Outcomes(),
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}
	return report
}

// WriteReport はレポートをYAMLとして書き出します (一時ファイル経由で置き換え)
func WriteReport(path string, report *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("レポートディレクトリ作成エラー: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("レポートのエンコードエラー: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("レポート書き込みエラー: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("レポート書き込みエラー: %w", err)
	}

	return nil
}
