package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"issuelogtotrello/api"
	"issuelogtotrello/config"
	"issuelogtotrello/utils"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "auth_check",
	Short: "ボードAPI認証確認ツール",
	Long: `ボードAPIの認証情報が正しく設定されているかを確認します。
board.id が設定されている場合は、ボードにアクセスできるかも確認します。

環境変数:
  TRELLO_API_KEY      APIキー (必須)
  TRELLO_API_TOKEN    APIトークン (必須)
  TRELLO_BOARD_ID     ボードID`,
	RunE:          runCheck,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "設定ファイルのパス (デフォルト: config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		utils.LogError("%v", err)
		utils.LogError("認証情報を確認してください。")
		os.Exit(1)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	utils.LogInfo("ボードAPI認証確認ツール")

	// 設定の読み込み
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}
	if err := cfg.ValidateAuth(); err != nil {
		return err
	}

	client := api.NewTrelloClient(cfg)
	ctx := context.Background()

	// 認証チェック
	utils.LogInfo("APIの認証を確認しています...")
	member, err := client.CheckAuth(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			return fmt.Errorf("APIキーまたはトークンが無効です: %w", err)
		}
		return err
	}
	utils.LogInfo("認証成功！ ユーザー: %s (%s)", member.Username, member.FullName)

	if cfg.Board.ID == "" {
		utils.LogWarn("board.id が設定されていないため、ボードの確認をスキップします")
		return nil
	}

	board, err := client.GetBoard(ctx)
	if err != nil {
		if api.IsNotFound(err) {
			return fmt.Errorf("ボード %s が見つかりません: %w", cfg.Board.ID, err)
		}
		return err
	}
	utils.LogInfo("ボードにアクセスできます: %s (%s)", board.Name, board.ID)
	return nil
}
