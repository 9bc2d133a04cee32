package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/yungbote/edusmart-backend/internal/services"
)

const (
	QuizSheet       = "Quiz Performance"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var quizHeader = []any{"Quiz", "Score", "Month", "Quiz ID"}

// WriteQuizPerformance renders one row per quiz result, in the order given,
// under a bold header row.
func WriteQuizPerformance(w io.Writer, rows []services.QuizPerformance) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", QuizSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(QuizSheet, "A1", &quizHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(QuizSheet, "A1", "D1", bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.Quiz, r.Score, r.Date, r.QuizID.String()}
		if err := f.SetSheetRow(QuizSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(QuizSheet, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(QuizSheet, "D", "D", 38); err != nil {
		return err
	}
	return f.Write(w)
}
