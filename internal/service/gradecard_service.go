package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"
)

// ErrPDFUnavailable is returned when the deployment has no TTF font
// configured for grade-card rendering.
var ErrPDFUnavailable = errors.New("pdf rendering unavailable: font file missing")

// GradeCardService renders the report snapshot into a printable grade
// card. It never recomputes anything; everything comes from
// PerformanceService.GenerateReport.
type GradeCardService struct {
	perfService *PerformanceService
	fontPath    string
	log         zerolog.Logger
}

func NewGradeCardService(perfService *PerformanceService, fontPath string, log zerolog.Logger) *GradeCardService {
	return &GradeCardService{
		perfService: perfService,
		fontPath:    fontPath,
		log:         log.With().Str("component", "gradecard_service").Logger(),
	}
}

// Render produces the grade-card PDF for a student up to a semester.
func (s *GradeCardService) Render(ctx context.Context, rollNo, semNo, year int) ([]byte, error) {
	if _, err := os.Stat(s.fontPath); err != nil {
		return nil, ErrPDFUnavailable
	}

	report, err := s.perfService.GenerateReport(ctx, rollNo, semNo, year)
	if err != nil {
		return nil, err
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := pdf.AddTTFFont("card", s.fontPath); err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	line := func(size float64, y float64, text string) error {
		if err := pdf.SetFont("card", "", size); err != nil {
			return err
		}
		pdf.SetXY(40, y)
		return pdf.Cell(nil, text)
	}

	y := 40.0
	if err := line(18, y, "Grade Card"); err != nil {
		return nil, err
	}
	y += 30
	if err := line(11, y, fmt.Sprintf("Roll No: %d    Name: %s    Department: %s",
		report.Student.RollNo, report.Student.Name, report.Student.Department)); err != nil {
		return nil, err
	}
	y += 18
	if err := line(11, y, fmt.Sprintf("Semester %d / %d    Status: %s",
		report.Semester.SemNo, report.Semester.Year, report.Semester.Status)); err != nil {
		return nil, err
	}

	y += 28
	if err := line(13, y, "Grades"); err != nil {
		return nil, err
	}
	y += 18
	for _, g := range report.Grades {
		if err := line(10, y, fmt.Sprintf("Sem %d  %-10s  credits %d  grade %s",
			g.SemNo, g.SubjectCode, g.Credits, g.Grade)); err != nil {
			return nil, err
		}
		y += 14
		if y > 780 {
			pdf.AddPage()
			y = 40
		}
	}

	y += 14
	if err := line(13, y, "Performance"); err != nil {
		return nil, err
	}
	y += 18
	for _, rec := range report.SPIData {
		if err := line(10, y, fmt.Sprintf("Sem %d  SPI %.2f", rec.SemNo, rec.SPI)); err != nil {
			return nil, err
		}
		y += 14
	}
	for _, rec := range report.CPIData {
		if err := line(10, y, fmt.Sprintf("Sem %d  CPI %.2f", rec.SemNo, rec.CPI)); err != nil {
			return nil, err
		}
		y += 14
		if y > 780 {
			pdf.AddPage()
			y = 40
		}
	}

	return pdf.GetBytesPdf(), nil
}

// Available reports whether PDF rendering can work on this deployment.
func (s *GradeCardService) Available() bool {
	_, err := os.Stat(s.fontPath)
	return err == nil
}
