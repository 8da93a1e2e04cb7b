package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"issuelogtotrello/config"
	"issuelogtotrello/models"
	"issuelogtotrello/utils"
)

// SheetReader は課題ログのワークブックを読み込みます
type SheetReader struct {
	config *config.Config
}

// NewSheetReader は新しいワークシートリーダーを作成します
func NewSheetReader(cfg *config.Config) *SheetReader {
	return &SheetReader{
		config: cfg,
	}
}

// ReadRows は設定されたワークシートのデータ行を順番に読み込みます
func (s *SheetReader) ReadRows() ([]models.Row, error) {
	path := s.config.Input.FilePath
	sheet := s.config.Input.Worksheet

	utils.LogInfo("ワークブック '%s' のシート '%s' を読み込みます", path, sheet)

	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	defer file.Close()

	rows, err := file.Rows(sheet)
	if err != nil {
		return nil, &InputError{Path: path, Sheet: sheet, Err: err}
	}
	defer rows.Close()

	result := make([]models.Row, 0)
	rowNumber := 0
	for rows.Next() {
		rowNumber++

		cols, err := rows.Columns()
		if err != nil {
			return nil, &InputError{Path: path, Sheet: sheet, Err: fmt.Errorf("行 %d: %w", rowNumber, err)}
		}

		if rowNumber < s.config.Input.FirstDataRow {
			continue
		}
		if isBlank(cols) {
			continue
		}

		result = append(result, s.toRow(rowNumber, cols))
	}

	if err := rows.Error(); err != nil {
		return nil, &InputError{Path: path, Sheet: sheet, Err: err}
	}

	utils.LogInfo("ワークシートを読み込みました: %d 行", len(result))
	return result, nil
}

// toRow は列の値を設定された位置に従って Row に割り当てます
func (s *SheetReader) toRow(number int, cols []string) models.Row {
	c := s.config.Input.Columns
	return models.Row{
		Number:         number,
		Identifier:     strings.TrimSpace(cell(cols, c.Identifier)),
		Module:         cell(cols, c.Module),
		Problem:        cell(cols, c.Problem),
		SupportingDocs: cell(cols, c.SupportingDocs),
		Severity:       strings.TrimSpace(cell(cols, c.Severity)),
		Status:         strings.TrimSpace(cell(cols, c.Status)),
		NotesCLG:       cell(cols, c.NotesCLG),
		NotesProvider:  cell(cols, c.NotesProvider),
	}
}

// ExportCSV は読み込んだ行をCSVとして書き出します
func (s *SheetReader) ExportCSV(rows []models.Row, w io.Writer) error {
	headers := []string{
		"Line", "Identifier", "Module", "Title", "Severity", "Status",
		"Supporting Documents", "Investigation Notes - CLG Systems",
		"Investigation Notes - Service Provider",
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("ヘッダー書き込みエラー: %w", err)
	}

	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Number), r.Identifier, r.Module, r.Title(), r.Severity,
			models.ParseStatus(r.Status).String(),
			r.SupportingDocs, r.NotesCLG, r.NotesProvider,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("行書き込みエラー: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV書き込み完了エラー: %w", err)
	}

	utils.LogInfo("CSV書き込み完了: %d 行", len(rows))
	return nil
}

func cell(cols []string, idx int) string {
	if idx < 0 || idx >= len(cols) {
		return ""
	}
	return cols[idx]
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
