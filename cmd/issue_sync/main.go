package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"issuelogtotrello/api"
	"issuelogtotrello/config"
	"issuelogtotrello/services"
	"issuelogtotrello/utils"
)

var (
	configPath    string
	inputFile     string
	worksheet     string
	reportPath    string
	logFile       string
	rowPolicy     string
	missingStatus string
	dryRun        bool
)

var rootCmd = &cobra.Command{
	Use:   "issue_sync",
	Short: "課題ログ → ボード 同期ツール",
	Long: `課題ログ(Excel)の各行をボードのカードに反映します。

  - ステータスが closed の行はクローズリストへ移動または作成
  - ステータスが re-open の行はバックログへ移動または作成
  - それ以外の行は既存カードのコメントを同期、無ければバックログに作成

設定は config.yaml / .env / 環境変数 (TRELLO_*) から読み込みます。`,
	Example: `  # すべての処理を実行
  issue_sync --config config.yaml

  # 書き込みを行わずに確認
  issue_sync --dry-run

  # 結果をYAMLで保存
  issue_sync --report reports/latest.yaml`,
	RunE:          runSync,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "設定ファイルのパス (デフォルト: config.yaml)")
	flags.StringVar(&inputFile, "file", "", "課題ログのワークブック (設定ファイルの値を上書き)")
	flags.StringVar(&worksheet, "sheet", "", "ワークシート名 (設定ファイルの値を上書き)")
	flags.StringVar(&reportPath, "report", "", "実行結果をYAMLで書き出すパス")
	flags.StringVar(&logFile, "log-file", "", "ログをローテーション付きファイルにも出力する")
	flags.StringVar(&rowPolicy, "row-policy", "", "識別子などが無い行の扱い (abort / skip)")
	flags.StringVar(&missingStatus, "missing-status", "", "ステータスが空の行の扱い (open / abort / skip)")
	flags.BoolVar(&dryRun, "dry-run", false, "ボードへの書き込みを行わずにログだけ出力する")
}

func main() {
	os.Exit(execute())
}

// execute はコマンドを実行し、終了コードを返します。
// 致命的なエラーもログファイルに残るよう、ログファイルはエラー出力の後に閉じます
func execute() int {
	err := rootCmd.Execute()
	if err != nil {
		utils.LogError("%v", err)
	}
	utils.CloseLogFile()

	if err != nil {
		return 1
	}
	return 0
}

func runSync(cmd *cobra.Command, args []string) error {
	// 開始時間の記録
	startTime := time.Now()

	// 設定の読み込み
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}

	applyFlags(cmd, cfg)

	utils.SetLogFile(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return err
	}

	utils.LogInfo("課題ログ → ボード 同期ツール")
	utils.LogInfo("設定読み込み完了 (board=%s, file=%s, sheet=%s, dry-run=%v)",
		cfg.Board.ID, cfg.Input.FilePath, cfg.Input.Worksheet, cfg.Sync.DryRun)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// ボードAPIの認証確認
	client := api.NewTrelloClient(cfg)
	member, err := client.CheckAuth(ctx)
	if err != nil {
		return err
	}
	utils.LogInfo("認証成功: %s", member.Username)

	var board services.Board = client
	if cfg.Sync.DryRun {
		board = services.NewDryRunBoard(client)
	}

	// ワークシートの読み込み
	rows, err := services.NewSheetReader(cfg).ReadRows()
	if err != nil {
		return err
	}

	// スナップショットの取得
	snapshot, err := services.NewSnapshotLoader(board).Load(ctx)
	if err != nil {
		return err
	}

	reconciler := services.NewReconciler(cfg, board, snapshot)
	summary, runErr := reconciler.Run(ctx, rows)

	if cfg.Sync.ReportPath != "" {
		report := services.NewReport(reconciler, startTime, summary, runErr)
		if err := services.WriteReport(cfg.Sync.ReportPath, report); err != nil {
			utils.LogWarn("レポートの書き出しに失敗しました: %v", err)
		} else {
			utils.LogInfo("レポートを書き出しました: %s", cfg.Sync.ReportPath)
		}
	}

	if runErr != nil {
		return fmt.Errorf("同期処理に失敗しました: %w", runErr)
	}

	// 合計実行時間の表示
	utils.LogInfo("同期処理が完了しました。合計実行時間: %s", time.Since(startTime))
	return nil
}

// applyFlags はコマンドラインで指定された値で設定を上書きします
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if inputFile != "" {
		cfg.Input.FilePath = inputFile
	}
	if worksheet != "" {
		cfg.Input.Worksheet = worksheet
	}
	if reportPath != "" {
		cfg.Sync.ReportPath = reportPath
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if rowPolicy != "" {
		cfg.Sync.RowPolicy = config.RowPolicy(strings.ToLower(rowPolicy))
	}
	if missingStatus != "" {
		cfg.Sync.MissingStatus = config.RowPolicy(strings.ToLower(missingStatus))
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Sync.DryRun = dryRun
	}
}
