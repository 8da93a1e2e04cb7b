package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"issuelogtotrello/config"
	"issuelogtotrello/models"
)

// TrelloClient はボードAPIとのやり取りを処理します
type TrelloClient struct {
	config *config.Config
	client *http.Client
}

// NewTrelloClient は新しいボードAPIクライアントを作成します
func NewTrelloClient(cfg *config.Config) *TrelloClient {
	return &TrelloClient{
		config: cfg,
		client: &http.Client{},
	}
}

// Member は認証ユーザーの情報です
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// Board はボードの基本情報です
type Board struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type action struct {
	ID   string `json:"id"`
	Data struct {
		Text string `json:"text"`
	} `json:"data"`
}

// CheckAuth は認証情報をチェックし、認証ユーザーを返します
func (t *TrelloClient) CheckAuth(ctx context.Context) (*Member, error) {
	var member Member
	params := url.Values{"fields": {"username,fullName"}}
	if err := t.do(ctx, http.MethodGet, "/members/me", params, nil, &member); err != nil {
		return nil, fmt.Errorf("認証失敗: %w", err)
	}
	return &member, nil
}

// GetBoard は設定されたボードの情報を取得します
func (t *TrelloClient) GetBoard(ctx context.Context) (*Board, error) {
	var board Board
	path := fmt.Sprintf("/boards/%s", url.PathEscape(t.config.Board.ID))
	params := url.Values{"fields": {"name"}}
	if err := t.do(ctx, http.MethodGet, path, params, nil, &board); err != nil {
		return nil, fmt.Errorf("ボード取得失敗: %w", err)
	}
	return &board, nil
}

// ListCards はボード上のすべてのカードを取得します
func (t *TrelloClient) ListCards(ctx context.Context) ([]models.Card, error) {
	path := fmt.Sprintf("/boards/%s/cards", url.PathEscape(t.config.Board.ID))
	params := url.Values{"fields": {t.config.Card.Fields}}

	cards, err := fetchPaged(ctx, t, path, params, func(c models.Card) string { return c.ID })
	if err != nil {
		return nil, fmt.Errorf("カード一覧取得失敗: %w", err)
	}
	return cards, nil
}

// ListLabels はボードのすべてのラベルを取得します
func (t *TrelloClient) ListLabels(ctx context.Context) ([]models.Label, error) {
	path := fmt.Sprintf("/boards/%s/labels", url.PathEscape(t.config.Board.ID))
	params := url.Values{"fields": {"id,name"}}

	labels, err := fetchPaged(ctx, t, path, params, func(l models.Label) string { return l.ID })
	if err != nil {
		return nil, fmt.Errorf("ラベル一覧取得失敗: %w", err)
	}
	return labels, nil
}

// CreateCard はカードをリストの末尾に作成します
func (t *TrelloClient) CreateCard(ctx context.Context, card models.NewCard) (models.Card, error) {
	params := url.Values{
		"name":     {card.Name},
		"desc":     {card.Desc},
		"pos":      {"bottom"},
		"idList":   {card.ListID},
		"idLabels": {strings.Join(card.LabelIDs, ",")},
	}

	var created models.Card
	if err := t.do(ctx, http.MethodPost, "/cards", params, nil, &created); err != nil {
		return models.Card{}, fmt.Errorf("カード作成失敗: %w", err)
	}

	if created.ID == "" {
		return models.Card{}, fmt.Errorf("作成したカードのIDが見つかりません")
	}
	if created.ListID == "" {
		created.ListID = card.ListID
	}
	return created, nil
}

// MoveCard はカードを別のリストの末尾に移動します
func (t *TrelloClient) MoveCard(ctx context.Context, cardID, listID string) error {
	path := fmt.Sprintf("/cards/%s", url.PathEscape(cardID))
	params := url.Values{
		"idList": {listID},
		"pos":    {"bottom"},
	}

	if err := t.do(ctx, http.MethodPut, path, params, nil, nil); err != nil {
		return fmt.Errorf("カード移動失敗: %w", err)
	}
	return nil
}

// ListComments はカードのすべてのコメントを取得します
func (t *TrelloClient) ListComments(ctx context.Context, cardID string) ([]models.Comment, error) {
	path := fmt.Sprintf("/cards/%s/actions", url.PathEscape(cardID))
	params := url.Values{
		"filter":        {t.config.Action.Filter},
		"fields":        {t.config.Action.Fields},
		"memberCreator": {strconv.FormatBool(t.config.Action.MemberCreator)},
	}

	actions, err := fetchPaged(ctx, t, path, params, func(a action) string { return a.ID })
	if err != nil {
		return nil, fmt.Errorf("コメント一覧取得失敗: %w", err)
	}

	comments := make([]models.Comment, 0, len(actions))
	for _, a := range actions {
		comments = append(comments, models.Comment{ID: a.ID, Text: a.Data.Text})
	}
	return comments, nil
}

// AddComment はカードにコメントを追加します
func (t *TrelloClient) AddComment(ctx context.Context, cardID, text string) error {
	path := fmt.Sprintf("/cards/%s/actions/comments", url.PathEscape(cardID))
	form := url.Values{"text": {text}}

	if err := t.do(ctx, http.MethodPost, path, nil, form, nil); err != nil {
		return fmt.Errorf("コメント追加失敗: %w", err)
	}
	return nil
}

// fetchPaged は limit / before によるページングで一覧をすべて取得します
func fetchPaged[T any](ctx context.Context, t *TrelloClient, path string, params url.Values, idOf func(T) string) ([]T, error) {
	pageSize := t.config.Sync.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}

	var all []T
	before := ""
	for {
		q := url.Values{}
		for k, v := range params {
			q[k] = v
		}
		q.Set("limit", strconv.Itoa(pageSize))
		if before != "" {
			q.Set("before", before)
		}

		var page []T
		if err := t.do(ctx, http.MethodGet, path, q, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)

		if len(page) < pageSize {
			return all, nil
		}

		next := idOf(page[len(page)-1])
		if next == "" || next == before {
			return all, nil
		}
		before = next
	}
}

// do は認証パラメータを付与してリクエストを送信し、結果をoutにデコードします
func (t *TrelloClient) do(ctx context.Context, method, path string, params, form url.Values, out interface{}) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", t.config.API.Key)
	q.Set("token", t.config.API.Token)

	endpoint := t.config.API.BaseURL + path + "?" + q.Encode()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("リクエスト作成エラー: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("リクエスト送信エラー: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("レスポンス解析エラー: %w", err)
	}
	return nil
}
