package utils

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"lostfound/internal/models"
)

// CreateMatchReport создает Excel отчет по совпадениям для администратора
func CreateMatchReport(filepath string, matches []*models.MatchWithItems) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Matches"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}

	headers := []string{"Match ID", "Score", "Status", "Lost Item", "Lost Category", "Found Item", "Found Category", "Created At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for rowIdx, m := range matches {
		rowNum := rowIdx + 2 // Заголовок в первой строке

		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), m.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), m.MatchScore)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), m.Status)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), m.LostTitle)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), m.LostCategory)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), m.FoundTitle)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), m.FoundCategory)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum),
			m.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	for i := 1; i <= len(headers); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheet, colName, colName, 22)
	}

	// Подсветка оценок: зеленым сильные совпадения, красным пограничные
	strongRule := []excelize.ConditionalFormatOptions{
		{
			Type:     "cell",
			Criteria: ">=",
			Value:    "80",
			Format:   getConditionalFormatStyle(f, "#CCFFCC"),
		},
	}
	if err := f.SetConditionalFormat(sheet, "B2:B10000", strongRule); err != nil {
		return err
	}

	weakRule := []excelize.ConditionalFormatOptions{
		{
			Type:     "cell",
			Criteria: "<",
			Value:    "60",
			Format:   getConditionalFormatStyle(f, "#FFCCCC"),
		},
	}
	if err := f.SetConditionalFormat(sheet, "B2:B10000", weakRule); err != nil {
		return err
	}

	createSummarySheet(f, matches)

	f.SetActiveSheet(index)
	return f.SaveAs(filepath)
}

// createSummarySheet добавляет лист со сводкой по статусам
func createSummarySheet(f *excelize.File, matches []*models.MatchWithItems) {
	f.NewSheet("Summary")

	byStatus := map[string]int{}
	totalScore := 0
	for _, m := range matches {
		byStatus[m.Status]++
		totalScore += m.MatchScore
	}

	avgScore := 0.0
	if len(matches) > 0 {
		avgScore = float64(totalScore) / float64(len(matches))
	}

	rows := [][2]interface{}{
		{"Report Generated", time.Now().Format("2006-01-02 15:04:05")},
		{"Total Matches", len(matches)},
		{"Pending", byStatus[models.MatchStatusPending]},
		{"Confirmed", byStatus[models.MatchStatusConfirmed]},
		{"Rejected", byStatus[models.MatchStatusRejected]},
		{"Average Score", fmt.Sprintf("%.1f", avgScore)},
	}

	for i, row := range rows {
		f.SetCellValue("Summary", fmt.Sprintf("A%d", i+1), row[0])
		f.SetCellValue("Summary", fmt.Sprintf("B%d", i+1), row[1])
	}
	f.SetColWidth("Summary", "A", "B", 24)
}

// getConditionalFormatStyle создает стиль для условного форматирования
func getConditionalFormatStyle(f *excelize.File, color string) *int {
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{color},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil
	}
	return &style
}
