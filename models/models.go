package models

import "strings"

// Row は課題ログ(ワークシート)の1行を表します
type Row struct {
	Number         int // ワークシート上の行番号 (1始まり)
	Identifier     string
	Module         string
	Problem        string
	SupportingDocs string
	Severity       string
	Status         string
	NotesCLG       string
	NotesProvider  string
}

// Title は問題記述の1行目を返します
func (r Row) Title() string {
	title, _, _ := strings.Cut(r.Problem, "\n")
	return strings.TrimRight(title, "\r")
}

// Card はボード上のカードを表します
type Card struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Desc     string   `json:"desc,omitempty"`
	ListID   string   `json:"idList"`
	LabelIDs []string `json:"idLabels,omitempty"`
}

// NewCard はカード作成リクエストの内容です
type NewCard struct {
	Name     string
	Desc     string
	ListID   string
	LabelIDs []string
}

// Label はボードのラベルを表します
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Comment はカードに付けられたコメントです
type Comment struct {
	ID   string
	Text string
}

// Summary は1回の同期処理の集計です
type Summary struct {
	Closed   int `yaml:"closed"`
	Reopened int `yaml:"reopened"`
	Existing int `yaml:"existing"`
	New      int `yaml:"new"`
	Comments int `yaml:"comments"`
	Skipped  int `yaml:"skipped"`
}

// Current は新規と既存の合計です
func (s Summary) Current() int {
	return s.New + s.Existing
}

// Total はクローズ・再オープン・現行の合計です
func (s Summary) Total() int {
	return s.Closed + s.Reopened + s.Current()
}
