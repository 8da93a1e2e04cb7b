package services

import (
	"context"

	"github.com/google/uuid"

	"issuelogtotrello/models"
	"issuelogtotrello/utils"
)

// DryRunBoard は読み取りだけを実際のボードに送り、書き込みはログに記録するだけのボードです
type DryRunBoard struct {
	Board
	created map[string]bool
}

// NewDryRunBoard は board をドライラン用に包みます
func NewDryRunBoard(board Board) *DryRunBoard {
	return &DryRunBoard{
		Board:   board,
		created: make(map[string]bool),
	}
}

// CreateCard はカードを作成せず、仮のIDを持つカードを返します
func (d *DryRunBoard) CreateCard(ctx context.Context, card models.NewCard) (models.Card, error) {
	id := "dry-" + uuid.New().String()
	d.created[id] = true
	utils.LogInfo("[dry-run] カード作成: %q (list=%s)", card.Name, card.ListID)
	return models.Card{
		ID:       id,
		Name:     card.Name,
		Desc:     card.Desc,
		ListID:   card.ListID,
		LabelIDs: card.LabelIDs,
	}, nil
}

// MoveCard はカードを移動せずログに記録します
func (d *DryRunBoard) MoveCard(ctx context.Context, cardID, listID string) error {
	utils.LogInfo("[dry-run] カード移動: %s -> %s", cardID, listID)
	return nil
}

// ListComments は仮のカードに対してはAPIを呼ばずに空の一覧を返します
func (d *DryRunBoard) ListComments(ctx context.Context, cardID string) ([]models.Comment, error) {
	if d.created[cardID] {
		return nil, nil
	}
	return d.Board.ListComments(ctx, cardID)
}

// AddComment はコメントを投稿せずログに記録します
func (d *DryRunBoard) AddComment(ctx context.Context, cardID, text string) error {
	utils.LogInfo("[dry-run] コメント追加: %s (%d 文字)", cardID, len([]rune(text)))
	return nil
}
