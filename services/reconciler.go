package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"issuelogtotrello/config"
	"issuelogtotrello/models"
	"issuelogtotrello/utils"
)

// descriptionSeparator は問題記述とメタ情報の区切り線です
const descriptionSeparator = "=========================================================="

// 行ごとの処理結果
const (
	ActionCreated   = "created"
	ActionMoved     = "moved"
	ActionUnchanged = "unchanged"
	ActionSkipped   = "skipped"
)

// RowOutcome は1行分の処理結果です
type RowOutcome struct {
	Row        int    `yaml:"row"`
	Identifier string `yaml:"identifier"`
	Status     string `yaml:"status"`
	Action     string `yaml:"action"`
	CardID     string `yaml:"card_id,omitempty"`
	Comments   int    `yaml:"comments"`
	Reason     string `yaml:"reason,omitempty"`
}

// Reconciler はワークシートの行をボードのカードに反映します
type Reconciler struct {
	config   *config.Config
	board    Board
	snapshot *Snapshot

	// cards はこの実行中に作成・移動・参照したカードです (カードIDがキー)
	cards        map[string]*models.Card
	// byIdentifier は小文字の識別子から cards の要素を引きます
	byIdentifier map[string]*models.Card

	runID    string
	summary  models.Summary
	outcomes []RowOutcome
}

// NewReconciler は新しい同期サービスを作成します
func NewReconciler(cfg *config.Config, board Board, snapshot *Snapshot) *Reconciler {
	return &Reconciler{
		config:   cfg,
		board:    board,
		snapshot: snapshot,
		runID:    uuid.New().String(),

		cards:        make(map[string]*models.Card),
		byIdentifier: make(map[string]*models.Card),
	}
}

// RunID はこの実行の識別子を返します
func (r *Reconciler) RunID() string {
	return r.runID
}

// Outcomes は処理済みの行の結果を返します
func (r *Reconciler) Outcomes() []RowOutcome {
	return r.outcomes
}

// Run は行を順番に処理します。エラーが発生した時点で中断し、それまでの集計を返します
func (r *Reconciler) Run(ctx context.Context, rows []models.Row) (models.Summary, error) {
	startTime := time.Now()
	defer utils.TrackTime(startTime, "同期処理")

	utils.LogInfo("同期を開始します: run=%s, 行数=%d", r.runID, len(rows))

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			r.logSummary()
			return r.summary, err
		}

		err := r.processRow(ctx, row)
		if err == nil {
			continue
		}

		var rowErr *RowError
		if errors.As(err, &rowErr) && r.skipAllowed(rowErr) {
			utils.LogWarn("%v: スキップします", rowErr)
			r.summary.Skipped++
			r.record(row, ActionSkipped, nil, 0, rowErr.Field)
			continue
		}

		r.logSummary()
		return r.summary, fmt.Errorf("行 %d の処理に失敗: %w", row.Number, err)
	}

	r.logSummary()
	return r.summary, nil
}

func (r *Reconciler) skipAllowed(err *RowError) bool {
	if err.Field == "status" {
		return r.config.Sync.MissingStatus == config.RowPolicySkip
	}
	return r.config.Sync.RowPolicy == config.RowPolicySkip
}

// processRow はステータス区分ごとの処理に振り分けます
func (r *Reconciler) processRow(ctx context.Context, row models.Row) error {
	if strings.TrimSpace(row.Identifier) == "" {
		return &RowError{Row: row.Number, Field: "identifier"}
	}
	if strings.TrimSpace(row.Status) == "" && r.config.Sync.MissingStatus != config.RowPolicyOpen {
		return &RowError{Row: row.Number, Identifier: row.Identifier, Field: "status"}
	}

	switch models.ParseStatus(row.Status) {
	case models.StatusClosed:
		return r.handleClosed(ctx, row)
	case models.StatusReopen:
		synced, err := r.handleReopen(ctx, row)
		if err != nil {
			return err
		}
		// 再オープンの行は移動・作成の後、通常の行と同じ存在確認に進みます
		return r.handleOpen(ctx, row, synced)
	default:
		return r.handleOpen(ctx, row, false)
	}
}

// handleClosed はクローズ済みの行をクローズリストに反映します。存在確認には進みません
func (r *Reconciler) handleClosed(ctx context.Context, row models.Row) error {
	closedID := r.config.List.ClosedID
	utils.LogInfo("%s is closed", row.Identifier)

	card, ok := r.findCard(row.Identifier)
	switch {
	case !ok:
		created, posted, err := r.createCard(ctx, row, closedID)
		if err != nil {
			return err
		}
		utils.LogInfo("%s is created in the closed list", row.Identifier)
		r.record(row, ActionCreated, created, posted, "")
	case card.ListID != closedID:
		posted, err := r.moveAndSync(ctx, card, row, closedID)
		if err != nil {
			return err
		}
		utils.LogInfo("%s is moved to closed", row.Identifier)
		r.record(row, ActionMoved, card, posted, "")
	default:
		r.record(row, ActionUnchanged, card, 0, "")
	}

	r.summary.Closed++
	return nil
}

// handleReopen は再オープンされた行をバックログに戻します。
// コメントを同期済みかどうかを返します
func (r *Reconciler) handleReopen(ctx context.Context, row models.Row) (bool, error) {
	backlogID := r.config.List.BacklogID
	utils.LogInfo("%s is re-opened", row.Identifier)

	card, ok := r.findCard(row.Identifier)
	synced := false
	switch {
	case !ok:
		created, posted, err := r.createCard(ctx, row, backlogID)
		if err != nil {
			return false, err
		}
		utils.LogInfo("%s is created in the backlog list", row.Identifier)
		r.record(row, ActionCreated, created, posted, "")
		synced = true
	case card.ListID != backlogID:
		posted, err := r.moveAndSync(ctx, card, row, backlogID)
		if err != nil {
			return false, err
		}
		utils.LogInfo("%s is moved to backlog", row.Identifier)
		r.record(row, ActionMoved, card, posted, "")
		synced = true
	}

	r.summary.Reopened++
	return synced, nil
}

// handleOpen は既存カードのコメントを同期するか、バックログにカードを作成します
func (r *Reconciler) handleOpen(ctx context.Context, row models.Row, synced bool) error {
	if card, ok := r.findCard(row.Identifier); ok {
		utils.LogInfo("%s already exists", row.Identifier)

		if !synced {
			posted, err := r.updateComments(ctx, card, row)
			if err != nil {
				return err
			}
			r.record(row, ActionUnchanged, card, posted, "")
		}

		r.summary.Existing++
		return nil
	}

	created, posted, err := r.createCard(ctx, row, r.config.List.BacklogID)
	if err != nil {
		return err
	}
	utils.LogInfo("%s is created", row.Identifier)
	r.record(row, ActionCreated, created, posted, "")

	r.summary.New++
	return nil
}

// findCard は作業セット、スナップショットの順にカードを探します。
// 同じカードに一致する識別子はすべて同じ *models.Card を共有します
func (r *Reconciler) findCard(identifier string) (*models.Card, bool) {
	key := identifierKey(identifier)
	if card, ok := r.byIdentifier[key]; ok {
		return card, true
	}

	found, ok := r.snapshot.FindCard(key)
	if !ok {
		return nil, false
	}

	card := r.track(found)
	r.byIdentifier[key] = card
	return card, true
}

// track はカードを作業セットに登録し、共有するポインタを返します
func (r *Reconciler) track(card models.Card) *models.Card {
	if existing, ok := r.cards[card.ID]; ok {
		return existing
	}
	c := card
	r.cards[c.ID] = &c
	return &c
}

func identifierKey(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// createCard はカードを作成し、空でないコメント欄をすべて投稿します
func (r *Reconciler) createCard(ctx context.Context, row models.Row, listID string) (*models.Card, int, error) {
	if strings.TrimSpace(row.Problem) == "" {
		return nil, 0, &RowError{Row: row.Number, Identifier: row.Identifier, Field: "problem statement"}
	}

	var labelIDs []string
	if id, ok := r.snapshot.LabelID(row.Severity); ok {
		labelIDs = []string{id}
	} else if row.Severity != "" {
		utils.LogWarn("%s: 重要度 '%s' に一致するラベルがありません", row.Identifier, row.Severity)
	}

	created, err := r.board.CreateCard(ctx, models.NewCard{
		Name:     CardName(row),
		Desc:     CardDescription(row),
		ListID:   listID,
		LabelIDs: labelIDs,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", row.Identifier, err)
	}

	card := r.track(created)
	r.byIdentifier[identifierKey(row.Identifier)] = card

	posted := 0
	for _, a := range RowAnnotations(row) {
		if err := r.board.AddComment(ctx, card.ID, a.Text()); err != nil {
			return card, posted, fmt.Errorf("%s: %w", row.Identifier, err)
		}
		posted++
		r.summary.Comments++
	}

	return card, posted, nil
}

// moveAndSync はカードをリストの末尾に移動してからコメントを同期します
func (r *Reconciler) moveAndSync(ctx context.Context, card *models.Card, row models.Row, listID string) (int, error) {
	if err := r.board.MoveCard(ctx, card.ID, listID); err != nil {
		return 0, fmt.Errorf("%s: %w", row.Identifier, err)
	}
	card.ListID = listID

	return r.updateComments(ctx, card, row)
}

// updateComments は未投稿のコメントだけを投稿し、その件数を返します
func (r *Reconciler) updateComments(ctx context.Context, card *models.Card, row models.Row) (int, error) {
	wanted := RowAnnotations(row)
	if len(wanted) == 0 {
		return 0, nil
	}

	existing, err := r.board.ListComments(ctx, card.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", row.Identifier, err)
	}

	posted := 0
	for _, a := range PendingAnnotations(existing, wanted) {
		if err := r.board.AddComment(ctx, card.ID, a.Text()); err != nil {
			return posted, fmt.Errorf("%s: %w", row.Identifier, err)
		}
		posted++
		r.summary.Comments++
	}

	if posted > 0 {
		utils.LogInfo("%s: %d 件のコメントを追加しました", row.Identifier, posted)
	}
	return posted, nil
}

func (r *Reconciler) record(row models.Row, action string, card *models.Card, comments int, reason string) {
	outcome := RowOutcome{
		Row:        row.Number,
		Identifier: row.Identifier,
		Status:     models.ParseStatus(row.Status).String(),
		Action:     action,
		Comments:   comments,
		Reason:     reason,
	}
	if card != nil {
		outcome.CardID = card.ID
	}
	r.outcomes = append(r.outcomes, outcome)
}

func (r *Reconciler) logSummary() {
	s := r.summary
	utils.LogInfo("Closed : %d", s.Closed)
	utils.LogInfo("Re-Opened : %d", s.Reopened)
	utils.LogInfo("Existing : %d", s.Existing)
	utils.LogInfo("New : %d", s.New)
	utils.LogInfo("Current : %d", s.Current())
	utils.LogInfo("Total : %d", s.Total())
	utils.LogInfo("Comments : %d", s.Comments)
	if s.Skipped > 0 {
		utils.LogWarn("Skipped : %d", s.Skipped)
	}
}

// CardName はカード名 "<識別子>: <問題記述の1行目>" を組み立てます
func CardName(row models.Row) string {
	return fmt.Sprintf("%s: %s", row.Identifier, row.Title())
}

// CardDescription はカードの説明文を組み立てます
func CardDescription(row models.Row) string {
	return fmt.Sprintf("%s\n\n%s\n\n**Module:** %s\n\n**Line:** #%d",
		row.Problem, descriptionSeparator, row.Module, row.Number)
}
