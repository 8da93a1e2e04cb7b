package services

import (
	"strings"

	"issuelogtotrello/models"
)

// Annotation はカードに投稿する1件のコメントです
type Annotation struct {
	Kind models.AnnotationKind
	Body string
}

// Text は固定ラベルを付けたコメント本文を返します
func (a Annotation) Text() string {
	return a.Kind.Prefix() + a.Body
}

// RowAnnotations は行の空でないコメント欄を種別順に返します
func RowAnnotations(r models.Row) []Annotation {
	var result []Annotation
	for _, kind := range models.AnnotationKinds {
		body := normalizeText(kind.Field(r))
		if body == "" {
			continue
		}
		result = append(result, Annotation{Kind: kind, Body: body})
	}
	return result
}

// PendingAnnotations は既存コメントに含まれていないコメントだけを返します。
// 種別ごとに、同じラベルを持つ既存コメントの本文と大文字小文字を無視して
// どちらかが他方の先頭部分であれば投稿済み (途中で切れたものを含む) とみなします。
func PendingAnnotations(existing []models.Comment, wanted []Annotation) []Annotation {
	if len(wanted) == 0 {
		return nil
	}

	satisfied := make([]bool, len(wanted))
	remaining := len(wanted)

	for _, comment := range existing {
		text := normalizeText(comment.Text)
		for i, a := range wanted {
			if satisfied[i] {
				continue
			}
			body, ok := stripPrefix(a.Kind, text)
			if !ok || !samePrefix(body, a.Body) {
				continue
			}
			satisfied[i] = true
			remaining--
		}
		if remaining == 0 {
			return nil
		}
	}

	pending := make([]Annotation, 0, remaining)
	for i, a := range wanted {
		if !satisfied[i] {
			pending = append(pending, a)
		}
	}
	return pending
}

// stripPrefix は種別のラベルで始まるコメントからラベルを取り除きます
func stripPrefix(kind models.AnnotationKind, text string) (string, bool) {
	label := strings.TrimSpace(kind.Prefix())
	if len(text) < len(label) || !strings.EqualFold(text[:len(label)], label) {
		return "", false
	}
	return strings.TrimSpace(text[len(label):]), true
}

func samePrefix(existing, pending string) bool {
	if existing == "" {
		return false
	}
	e := strings.ToLower(existing)
	p := strings.ToLower(pending)
	return strings.HasPrefix(p, e) || strings.HasPrefix(e, p)
}

func normalizeText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
}
