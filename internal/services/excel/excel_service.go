package excel

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names of an exported campaign log workbook
const (
	SummarySheet    = "Summary"
	RecipientsSheet = "Recipients"
)

// Service renders campaign logs as Excel workbooks
type Service struct{}

// NewExcelService creates a new Excel service instance
func NewExcelService() *Service {
	return &Service{}
}

// ExportFilename is the download name used for a log export
func ExportFilename(log *models.CampaignLog) string {
	return fmt.Sprintf("campaign_log_%s_%d.xlsx", log.ID, log.StartedAt.Unix())
}

// ExportCampaignLog writes a two-sheet workbook: the campaign summary and one row per address
func (s *Service) ExportCampaignLog(log *models.CampaignLog) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(RecipientsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FFFF00"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := s.writeSummary(f, log, headerStyle); err != nil {
		return nil, err
	}
	if err := s.writeRecipients(f, log, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf, nil
}

func (s *Service) writeSummary(f *excelize.File, log *models.CampaignLog, headerStyle int) error {
	completedAt := ""
	if log.CompletedAt != nil {
		completedAt = log.CompletedAt.Format(time.RFC3339)
	}
	duration := ""
	if log.DurationMs != nil {
		duration = strconv.FormatInt(*log.DurationMs, 10)
	}

	rows := [][]interface{}{
		{"field", "value"},
		{"id", log.ID},
		{"template_name", log.TemplateName},
		{"subject", log.Subject},
		{"recipient_count", log.RecipientCount},
		{"success_count", log.SuccessCount},
		{"failed_count", log.FailedCount},
		{"started_at", log.StartedAt.Format(time.RFC3339)},
		{"completed_at", completedAt},
		{"duration_ms", duration},
		{"body_preview", log.BodyPreview},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	f.SetCellStyle(SummarySheet, "A1", "B1", headerStyle)
	f.SetColWidth(SummarySheet, "A", "A", 20)
	f.SetColWidth(SummarySheet, "B", "B", 60)
	return nil
}

func (s *Service) writeRecipients(f *excelize.File, log *models.CampaignLog, headerStyle int) error {
	sentStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"C6EFCE"}, // Green
			Pattern: 1,
		},
	})
	failedStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FFC7CE"}, // Red
			Pattern: 1,
		},
	})
	queuedStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"D9D9D9"}, // Gray
			Pattern: 1,
		},
	})

	columns := []string{"email", "name", "status", "error", "message_id", "sent_at"}
	for i, col := range columns {
		f.SetCellValue(RecipientsSheet, fmt.Sprintf("%s1", columnToLetter(i+1)), col)
	}
	lastCol := columnToLetter(len(columns))
	f.SetCellStyle(RecipientsSheet, "A1", lastCol+"1", headerStyle)

	for i, col := range columns {
		colLetter := columnToLetter(i + 1)
		width := 20.0
		switch col {
		case "email", "message_id":
			width = 35.0
		case "status":
			width = 12.0
		case "error":
			width = 50.0
		}
		f.SetColWidth(RecipientsSheet, colLetter, colLetter, width)
	}

	// Logs ingested without per-address outcomes still list who was addressed.
	if len(log.PerRecipient) == 0 {
		for j, r := range log.Recipients {
			rowNum := j + 2
			row := []interface{}{r.Email, r.Name}
			if err := f.SetSheetRow(RecipientsSheet, fmt.Sprintf("A%d", rowNum), &row); err != nil {
				return fmt.Errorf("failed to write recipients: %w", err)
			}
		}
		return nil
	}

	for j, st := range log.PerRecipient {
		rowNum := j + 2
		sentAt := ""
		if st.SentAt != nil {
			sentAt = st.SentAt.Format(time.RFC3339)
		}
		row := []interface{}{st.Email, st.Name, st.Status, st.Error, st.MessageID, sentAt}
		if err := f.SetSheetRow(RecipientsSheet, fmt.Sprintf("A%d", rowNum), &row); err != nil {
			return fmt.Errorf("failed to write recipients: %w", err)
		}

		rowRange := [2]string{fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum)}
		switch st.Status {
		case models.RecipientStatusSent:
			f.SetCellStyle(RecipientsSheet, rowRange[0], rowRange[1], sentStyle)
		case models.RecipientStatusFailed:
			f.SetCellStyle(RecipientsSheet, rowRange[0], rowRange[1], failedStyle)
		case models.RecipientStatusQueued:
			f.SetCellStyle(RecipientsSheet, rowRange[0], rowRange[1], queuedStyle)
		}
	}
	return nil
}

// Helper function to convert column number to Excel column letter
func columnToLetter(col int) string {
	var result string
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
