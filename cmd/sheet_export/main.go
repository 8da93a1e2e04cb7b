package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"issuelogtotrello/config"
	"issuelogtotrello/services"
	"issuelogtotrello/utils"
)

var (
	configPath string
	inputFile  string
	worksheet  string
	outputFile string
)

var rootCmd = &cobra.Command{
	Use:   "sheet_export",
	Short: "課題ログ → CSV 確認ツール",
	Long: `課題ログのワークシートを設定された列配置で読み込み、CSVとして出力します。

同期を実行する前に、列の割り当てやデータ開始行が正しいかを確認するために使います。`,
	RunE:          runExport,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "設定ファイルのパス (デフォルト: config.yaml)")
	flags.StringVar(&inputFile, "file", "", "課題ログのワークブック (設定ファイルの値を上書き)")
	flags.StringVar(&worksheet, "sheet", "", "ワークシート名 (設定ファイルの値を上書き)")
	flags.StringVarP(&outputFile, "output", "o", "", "出力するCSV (省略時は標準出力)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		utils.LogError("%v", err)
		os.Exit(1)
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	// 開始時間の記録
	startTime := time.Now()

	// CSVを標準出力に書く場合、ログは標準エラーに出す
	if outputFile == "" {
		utils.SetOutput(os.Stderr)
	}

	// 設定の読み込み
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}

	// コマンドラインでパスが指定された場合、設定を上書き
	if inputFile != "" {
		cfg.Input.FilePath = inputFile
	}
	if worksheet != "" {
		cfg.Input.Worksheet = worksheet
	}
	if cfg.Input.FilePath == "" {
		return fmt.Errorf("ワークブックが指定されていません (--file または input.file_path)")
	}

	reader := services.NewSheetReader(cfg)
	rows, err := reader.ReadRows()
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("CSVファイル作成エラー: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := reader.ExportCSV(rows, out); err != nil {
		return err
	}

	utils.LogInfo("CSV出力が完了しました: %d 件。処理時間: %s", len(rows), time.Since(startTime))
	return nil
}
