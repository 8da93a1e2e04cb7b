package models

import "strings"

// Status は行のステータス区分です
type Status int

const (
	// StatusOpen は closed / re-open 以外のすべての値です
	StatusOpen Status = iota
	// StatusClosed はクローズ済みの行です
	StatusClosed
	// StatusReopen は再オープンされた行です
	StatusReopen
)

// ParseStatus はワークシートのステータス文字列を区分に変換します
func ParseStatus(value string) Status {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "closed":
		return StatusClosed
	case "re-open":
		return StatusReopen
	default:
		return StatusOpen
	}
}

func (s Status) String() string {
	switch s {
	case StatusClosed:
		return "closed"
	case StatusReopen:
		return "re-open"
	default:
		return "open"
	}
}

// AnnotationKind はコメントの種類です
type AnnotationKind int

const (
	SupportingDocuments AnnotationKind = iota
	InvestigationNotesCLG
	InvestigationNotesProvider
)

// AnnotationKinds は投稿順に並べたコメント種別です
var AnnotationKinds = []AnnotationKind{
	SupportingDocuments,
	InvestigationNotesCLG,
	InvestigationNotesProvider,
}

// Prefix はコメント本文の前に付ける固定ラベルです
func (k AnnotationKind) Prefix() string {
	switch k {
	case SupportingDocuments:
		return "Supporting Documents:\n\n"
	case InvestigationNotesCLG:
		return "Investigation Notes - CLG Systems:\n\n"
	case InvestigationNotesProvider:
		return "Investigation Notes - Service Provider:\n\n"
	}
	return ""
}

// Field は行からこの種別のコメント欄の値を取り出します
func (k AnnotationKind) Field(r Row) string {
	switch k {
	case SupportingDocuments:
		return r.SupportingDocs
	case InvestigationNotesCLG:
		return r.NotesCLG
	case InvestigationNotesProvider:
		return r.NotesProvider
	}
	return ""
}
