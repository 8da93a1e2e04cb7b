package services

import (
	"context"
	"fmt"
	"strings"

	"issuelogtotrello/models"
	"issuelogtotrello/utils"
)

// Board は同期処理が利用するボードAPIの操作です
type Board interface {
	ListCards(ctx context.Context) ([]models.Card, error)
	ListLabels(ctx context.Context) ([]models.Label, error)
	CreateCard(ctx context.Context, card models.NewCard) (models.Card, error)
	MoveCard(ctx context.Context, cardID, listID string) error
	ListComments(ctx context.Context, cardID string) ([]models.Comment, error)
	AddComment(ctx context.Context, cardID, text string) error
}

// Snapshot は起動時に一度だけ取得するカードとラベルの一覧です
type Snapshot struct {
	Cards  []models.Card
	Labels []models.Label
}

// FindCard は名前が識別子で始まる最初のカードを返します (大文字小文字は無視)
func (s *Snapshot) FindCard(identifier string) (models.Card, bool) {
	id := strings.ToLower(identifier)
	for _, card := range s.Cards {
		if strings.HasPrefix(strings.ToLower(card.Name), id) {
			return card, true
		}
	}
	return models.Card{}, false
}

// LabelID は重要度と名前が一致するラベルのIDを返します
func (s *Snapshot) LabelID(severity string) (string, bool) {
	if severity == "" {
		return "", false
	}
	for _, label := range s.Labels {
		if strings.EqualFold(label.Name, severity) {
			return label.ID, true
		}
	}
	return "", false
}

// SnapshotLoader はボードのスナップショットを取得します
type SnapshotLoader struct {
	board Board
}

// NewSnapshotLoader は新しいスナップショットローダーを作成します
func NewSnapshotLoader(board Board) *SnapshotLoader {
	return &SnapshotLoader{board: board}
}

// Load はカードとラベルを一括取得します。失敗した場合はそのまま返します
func (l *SnapshotLoader) Load(ctx context.Context) (*Snapshot, error) {
	cards, err := l.board.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("スナップショット取得エラー: %w", err)
	}

	labels, err := l.board.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("スナップショット取得エラー: %w", err)
	}

	utils.LogInfo("スナップショットを取得しました: カード=%d, ラベル=%d", len(cards), len(labels))
	return &Snapshot{Cards: cards, Labels: labels}, nil
}
