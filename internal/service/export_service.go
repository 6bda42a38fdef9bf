package service

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"cerdas/internal/repository"
)

// ExportService produces spreadsheet reports for admins
type ExportService struct {
	students *repository.StudentRepository
}

// NewExportService creates a new export service
func NewExportService(students *repository.StudentRepository) *ExportService {
	return &ExportService{students: students}
}

// WriteStudentsXLSX writes an XLSX workbook with every student's progress,
// ranked by lifetime points
func (s *ExportService) WriteStudentsXLSX(w io.Writer) error {
	students, err := s.students.ListWithProfiles()
	if err != nil {
		return fmt.Errorf("failed to load students: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Siswa"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Peringkat", "Nama", "Email", "Kelas", "Total Poin", "Level", "Streak", "Waktu Belajar (menit)", "Terakhir Bermain"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheet, "A1", endCell, style)
	}

	for i, sw := range students {
		row := i + 2

		grade := ""
		if sw.Student.GradeLevel != nil {
			grade = fmt.Sprintf("%d", *sw.Student.GradeLevel)
		}
		lastPlayed := ""
		if sw.Student.LastPlayedAt != nil {
			lastPlayed = sw.Student.LastPlayedAt.Format(time.DateTime)
		}

		values := []interface{}{
			i + 1,
			sw.Profile.FullName,
			sw.Profile.Email,
			grade,
			sw.Student.TotalPoints,
			sw.Student.CurrentLevel,
			sw.Student.CurrentStreak,
			sw.Student.TotalStudyTime,
			lastPlayed,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "B", "C", 28)
	f.SetColWidth(sheet, "D", "I", 18)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
