package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// RowPolicy は必須フィールドが欠けた行の扱いを表します
type RowPolicy string

const (
	// RowPolicyAbort は最初の不正な行で処理全体を中断します
	RowPolicyAbort RowPolicy = "abort"
	// RowPolicySkip は不正な行を警告付きでスキップします
	RowPolicySkip RowPolicy = "skip"
	// RowPolicyOpen はステータスが空の行を未クローズ (open) として扱います
	RowPolicyOpen RowPolicy = "open"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Board  BoardConfig  `mapstructure:"board"`
	Card   CardConfig   `mapstructure:"card"`
	Action ActionConfig `mapstructure:"action"`
	List   ListConfig   `mapstructure:"list"`
	Input  InputConfig  `mapstructure:"input"`
	Sync   SyncConfig   `mapstructure:"sync"`
	Log    LogConfig    `mapstructure:"log"`
}

// APIConfig はボードAPIの認証情報です
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Key     string `mapstructure:"key"`
	Token   string `mapstructure:"token"`
}

// BoardConfig は対象ボードの設定です
type BoardConfig struct {
	ID string `mapstructure:"id"`
}

// CardConfig はカード一覧取得時のフィールド指定です
type CardConfig struct {
	Fields string `mapstructure:"fields"`
}

// ActionConfig はコメント(アクション)取得時の設定です
type ActionConfig struct {
	Fields        string `mapstructure:"fields"`
	Filter        string `mapstructure:"filter"`
	MemberCreator bool   `mapstructure:"member_creator"`
}

// ListConfig は移動先リストのIDです
type ListConfig struct {
	BacklogID string `mapstructure:"backlog_id"`
	ClosedID  string `mapstructure:"closed_id"`
}

// InputConfig は課題ログのワークブック設定です
type InputConfig struct {
	FilePath     string  `mapstructure:"file_path"`
	Worksheet    string  `mapstructure:"worksheet"`
	FirstDataRow int     `mapstructure:"first_data_row"`
	Columns      Columns `mapstructure:"columns"`
}

// Columns はワークシートの列位置 (0始まり) です
type Columns struct {
	Module         int `mapstructure:"module"`
	Problem        int `mapstructure:"problem"`
	SupportingDocs int `mapstructure:"supporting_docs"`
	Severity       int `mapstructure:"severity"`
	Identifier     int `mapstructure:"identifier"`
	Status         int `mapstructure:"status"`
	NotesCLG       int `mapstructure:"notes_clg"`
	NotesProvider  int `mapstructure:"notes_provider"`
}

// SyncConfig は同期処理の挙動を制御します
type SyncConfig struct {
	// RowPolicy は識別子や問題記述が無い行の扱い (abort / skip)
	RowPolicy     RowPolicy `mapstructure:"row_policy"`
	// MissingStatus はステータスが空の行の扱い (open / abort / skip)
	MissingStatus RowPolicy `mapstructure:"missing_status"`
	PageSize      int       `mapstructure:"page_size"`
	DryRun        bool      `mapstructure:"dry_run"`
	ReportPath    string    `mapstructure:"report_path"`
}

// LogConfig はログファイルの設定です
type LogConfig struct {
	File string `mapstructure:"file"`
}

// DefaultColumns は課題ログの標準列配置です
var DefaultColumns = Columns{
	Module:         3,
	Problem:        4,
	SupportingDocs: 5,
	Severity:       6,
	Identifier:     9,
	Status:         11,
	NotesCLG:       20,
	NotesProvider:  21,
}

var defaults = map[string]interface{}{
	"api.base_url":                  "https://api.trello.com/1",
	"api.key":                       "",
	"api.token":                     "",
	"board.id":                      "",
	"card.fields":                   "id,name,idList",
	"action.fields":                 "data",
	"action.filter":                 "commentCard",
	"action.member_creator":         false,
	"list.backlog_id":               "",
	"list.closed_id":                "",
	"input.file_path":               "",
	"input.worksheet":               "Issue Log Details",
	"input.first_data_row":          5,
	"input.columns.module":          DefaultColumns.Module,
	"input.columns.problem":         DefaultColumns.Problem,
	"input.columns.supporting_docs": DefaultColumns.SupportingDocs,
	"input.columns.severity":        DefaultColumns.Severity,
	"input.columns.identifier":      DefaultColumns.Identifier,
	"input.columns.status":          DefaultColumns.Status,
	"input.columns.notes_clg":       DefaultColumns.NotesCLG,
	"input.columns.notes_provider":  DefaultColumns.NotesProvider,
	"sync.row_policy":               string(RowPolicyAbort),
	"sync.missing_status":           string(RowPolicyOpen),
	"sync.page_size":                1000,
	"sync.dry_run":                  false,
	"sync.report_path":              "",
	"log.file":                      "",
}

// LoadConfig は設定ファイルと環境変数から設定を読み込みます
// path が空の場合は config.yaml が存在すれば読み込みます
func LoadConfig(path string) (*Config, error) {
	// .envファイルを読み込む
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// TRELLO_API_KEY, TRELLO_LIST_BACKLOG_ID などで上書き可能
	v.SetEnvPrefix("TRELLO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = getEnvWithDefault("TRELLO_CONFIG", "config.yaml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = ""
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("設定ファイル読み込みエラー (%s): %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("設定の解析エラー: %w", err)
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	cfg.Sync.RowPolicy = RowPolicy(strings.ToLower(string(cfg.Sync.RowPolicy)))
	cfg.Sync.MissingStatus = RowPolicy(strings.ToLower(string(cfg.Sync.MissingStatus)))

	return cfg, nil
}

// Validate は同期に必要な設定が揃っているかを確認します
func (c *Config) Validate() error {
	var missing []string

	required := []struct {
		name  string
		value string
	}{
		{"api.key", c.API.Key},
		{"api.token", c.API.Token},
		{"board.id", c.Board.ID},
		{"list.backlog_id", c.List.BacklogID},
		{"list.closed_id", c.List.ClosedID},
		{"input.file_path", c.Input.FilePath},
		{"input.worksheet", c.Input.Worksheet},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("必須設定が不足しています: %s", strings.Join(missing, ", "))
	}

	switch c.Sync.RowPolicy {
	case RowPolicyAbort, RowPolicySkip:
	default:
		return fmt.Errorf("不明な row_policy です: %q (abort または skip)", c.Sync.RowPolicy)
	}

	switch c.Sync.MissingStatus {
	case RowPolicyOpen, RowPolicyAbort, RowPolicySkip:
	default:
		return fmt.Errorf("不明な missing_status です: %q (open, abort, skip)", c.Sync.MissingStatus)
	}

	if c.Sync.PageSize <= 0 {
		return fmt.Errorf("page_size は1以上である必要があります: %d", c.Sync.PageSize)
	}

	if c.Input.FirstDataRow < 1 {
		return fmt.Errorf("first_data_row は1以上である必要があります: %d", c.Input.FirstDataRow)
	}

	return nil
}

// ValidateAuth は認証確認に必要な設定のみを確認します
func (c *Config) ValidateAuth() error {
	if c.API.Key == "" || c.API.Token == "" {
		return fmt.Errorf("api.key と api.token は必須です")
	}
	return nil
}

// デフォルト値付きで環境変数を取得
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
