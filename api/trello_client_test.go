package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"issuelogtotrello/config"
	"issuelogtotrello/models"
)

func newTestClient(t *testing.T, handler http.Handler) *TrelloClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		API:    config.APIConfig{BaseURL: srv.URL, Key: "k", Token: "t"},
		Board:  config.BoardConfig{ID: "board1"},
		Card:   config.CardConfig{Fields: "id,name,idList"},
		Action: config.ActionConfig{Fields: "data", Filter: "commentCard"},
		Sync:   config.SyncConfig{PageSize: 2},
	}
	return NewTrelloClient(cfg)
}

func requireAuth(t *testing.T, r *http.Request) {
	t.Helper()
	if r.URL.Query().Get("key") != "k" || r.URL.Query().Get("token") != "t" {
		t.Errorf("%s %s missing credentials: %s", r.Method, r.URL.Path, r.URL.RawQuery)
	}
}

func TestListCardsPaginates(t *testing.T) {
	all := []models.Card{
		{ID: "c5", Name: "IR-5: five", ListID: "l1"},
		{ID: "c4", Name: "IR-4: four", ListID: "l1"},
		{ID: "c3", Name: "IR-3: three", ListID: "l2"},
	}
	var befores []string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requireAuth(t, r)
		if r.URL.Path != "/boards/board1/cards" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("fields"); got != "id,name,idList" {
			t.Errorf("fields = %q", got)
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		before := r.URL.Query().Get("before")
		befores = append(befores, before)

		start := 0
		if before != "" {
			for i, c := range all {
				if c.ID == before {
					start = i + 1
				}
			}
		}
		end := start + limit
		if end > len(all) {
			end = len(all)
		}
		_ = json.NewEncoder(w).Encode(all[start:end])
	}))

	cards, err := client.ListCards(context.Background())
	if err != nil {
		t.Fatalf("ListCards failed: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("got %d cards, want 3", len(cards))
	}
	if cards[2].ID != "c3" || cards[2].ListID != "l2" {
		t.Errorf("unexpected last card: %+v", cards[2])
	}
	if len(befores) != 2 || befores[0] != "" || befores[1] != "c4" {
		t.Errorf("unexpected paging cursors: %v", befores)
	}
}

func TestListCommentsDecodesActionText(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requireAuth(t, r)
		if r.URL.Path != "/cards/c1/actions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("filter"); got != "commentCard" {
			t.Errorf("filter = %q", got)
		}
		fmt.Fprint(w, `[{"id":"a1","data":{"text":"Supporting Documents:\n\nfoo"}}]`)
	}))

	comments, err := client.ListComments(context.Background(), "c1")
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 1 || comments[0].Text != "Supporting Documents:\n\nfoo" {
		t.Errorf("unexpected comments: %+v", comments)
	}
}

func TestCreateCardSendsFields(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requireAuth(t, r)
		if r.Method != http.MethodPost || r.URL.Path != "/cards" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("name") != "IR-1: title" || q.Get("pos") != "bottom" || q.Get("idList") != "backlog" {
			t.Errorf("unexpected params: %s", r.URL.RawQuery)
		}
		if q.Get("idLabels") != "lbl1" {
			t.Errorf("idLabels = %q", q.Get("idLabels"))
		}
		fmt.Fprint(w, `{"id":"new1","name":"IR-1: title","idList":"backlog"}`)
	}))

	card, err := client.CreateCard(context.Background(), models.NewCard{
		Name:     "IR-1: title",
		Desc:     "desc",
		ListID:   "backlog",
		LabelIDs: []string{"lbl1"},
	})
	if err != nil {
		t.Fatalf("CreateCard failed: %v", err)
	}
	if card.ID != "new1" || card.ListID != "backlog" {
		t.Errorf("unexpected card: %+v", card)
	}
}

func TestMoveCardAndAddComment(t *testing.T) {
	var moved, commented bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requireAuth(t, r)
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/cards/c1":
			if r.URL.Query().Get("idList") != "closed" || r.URL.Query().Get("pos") != "bottom" {
				t.Errorf("unexpected move params: %s", r.URL.RawQuery)
			}
			moved = true
			fmt.Fprint(w, `{}`)
		case r.Method == http.MethodPost && r.URL.Path == "/cards/c1/actions/comments":
			if err := r.ParseForm(); err != nil {
				t.Fatalf("ParseForm: %v", err)
			}
			if r.PostForm.Get("text") != "hello" {
				t.Errorf("text = %q", r.PostForm.Get("text"))
			}
			commented = true
			fmt.Fprint(w, `{}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	ctx := context.Background()
	if err := client.MoveCard(ctx, "c1", "closed"); err != nil {
		t.Fatalf("MoveCard failed: %v", err)
	}
	if err := client.AddComment(ctx, "c1", "hello"); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if !moved || !commented {
		t.Errorf("moved=%v commented=%v", moved, commented)
	}
}

func TestAPIErrorOnNon2xx(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))

	_, err := client.CheckAuth(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsUnauthorized(err) {
		t.Errorf("expected unauthorized APIError, got %v", err)
	}
	if IsNotFound(err) {
		t.Error("IsNotFound should be false")
	}
}
