package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"playeasy/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// ToExcel writes the user's bookings into an .xlsx workbook under dir and
// returns the file path.
func ToExcel(dir, userID string, bookings []models.Booking) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Bookings exported %s", time.Now().Format("02.01.2006 15:04")))
	_ = f.MergeCell(sheetName, "A1", "I1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"ID", "Court", "Type", "Date", "Time", "Duration (h)", "Payment", "Total", "Status"}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for row, b := range bookings {
		values := []interface{}{
			b.ID,
			b.CourtName,
			b.CourtType,
			b.Date.Format("2006-01-02"),
			b.Time,
			b.Duration,
			b.PaymentMethod,
			b.TotalAmount,
			b.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "I", 18)

	path := filepath.Join(dir, fmt.Sprintf("bookings_%s_%s.xlsx", userID, time.Now().Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving export: %v", err)
	}

	return path, nil
}
