package services

import (
	"testing"

	"issuelogtotrello/models"
)

func TestRowAnnotationsSkipsEmpty(t *testing.T) {
	row := models.Row{
		SupportingDocs: "  doc.pdf \n",
		NotesCLG:       "   ",
		NotesProvider:  "provider says hi",
	}

	got := RowAnnotations(row)
	if len(got) != 2 {
		t.Fatalf("got %d annotations, want 2", len(got))
	}
	if got[0].Kind != models.SupportingDocuments || got[0].Body != "doc.pdf" {
		t.Errorf("unexpected first annotation: %+v", got[0])
	}
	if got[1].Text() != "Investigation Notes - Service Provider:\n\nprovider says hi" {
		t.Errorf("Text() = %q", got[1].Text())
	}
}

func TestPendingAnnotations(t *testing.T) {
	docs := Annotation{Kind: models.SupportingDocuments, Body: "See attached log file"}
	clg := Annotation{Kind: models.InvestigationNotesCLG, Body: "Root cause in billing"}

	tests := []struct {
		name     string
		existing []models.Comment
		wanted   []Annotation
		want     int
	}{
		{
			name:   "no existing comments",
			wanted: []Annotation{docs, clg},
			want:   2,
		},
		{
			name:     "exact repost is skipped",
			existing: []models.Comment{{Text: docs.Text()}, {Text: clg.Text()}},
			wanted:   []Annotation{docs, clg},
			want:     0,
		},
		{
			name:     "pending is prefix of posted text",
			existing: []models.Comment{{Text: "Supporting Documents:\n\nSEE ATTACHED LOG FILE and screenshots"}},
			wanted:   []Annotation{docs},
			want:     0,
		},
		{
			name:     "posted text truncated",
			existing: []models.Comment{{Text: "Supporting Documents:\n\nSee attached"}},
			wanted:   []Annotation{docs},
			want:     0,
		},
		{
			name:     "same body under another kind does not count",
			existing: []models.Comment{{Text: "Investigation Notes - CLG Systems:\n\nSee attached log file"}},
			wanted:   []Annotation{docs},
			want:     1,
		},
		{
			name:     "changed text is posted",
			existing: []models.Comment{{Text: "Investigation Notes - CLG Systems:\n\nNothing found yet"}},
			wanted:   []Annotation{clg},
			want:     1,
		},
		{
			name:     "label without body never satisfies",
			existing: []models.Comment{{Text: "Supporting Documents:\n\n"}},
			wanted:   []Annotation{docs},
			want:     1,
		},
		{
			name:     "crlf in posted text",
			existing: []models.Comment{{Text: "Supporting Documents:\r\n\r\nSee attached log file"}},
			wanted:   []Annotation{docs},
			want:     0,
		},
		{
			name:     "unrelated comment",
			existing: []models.Comment{{Text: "looking into it"}},
			wanted:   []Annotation{docs},
			want:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PendingAnnotations(tt.existing, tt.wanted)
			if len(got) != tt.want {
				t.Errorf("got %d pending, want %d: %+v", len(got), tt.want, got)
			}
		})
	}
}
