package service

import (
	"errors"
	"testing"
)

func TestParseGradeFileName(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		wantSubject string
		wantSemNo   int
		wantYear    int
		wantErr     bool
	}{
		{"xlsx", "CS101_sem1_2023.xlsx", "CS101", 1, 2023, false},
		{"csv", "MA201_sem4_2024.csv", "MA201", 4, 2024, false},
		{"lowercase accepted", "cs101_sem1_2023.csv", "CS101", 1, 2023, false},
		{"two digit semester", "PH101_sem10_2025.xlsx", "PH101", 10, 2025, false},
		{"missing semester segment", "CS101_2023.xlsx", "", 0, 0, true},
		{"wrong extension", "CS101_sem1_2023.pdf", "", 0, 0, true},
		{"two digit year", "CS101_sem1_23.xlsx", "", 0, 0, true},
		{"no digits in code", "CS_sem1_2023.xlsx", "", 0, 0, true},
		{"empty", "", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, semNo, year, err := ParseGradeFileName(tt.fileName)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFileName) {
					t.Fatalf("ParseGradeFileName(%q) expected ErrInvalidFileName, got %v", tt.fileName, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGradeFileName(%q) unexpected error: %v", tt.fileName, err)
			}
			if subject != tt.wantSubject || semNo != tt.wantSemNo || year != tt.wantYear {
				t.Errorf("ParseGradeFileName(%q) = (%q, %d, %d), want (%q, %d, %d)",
					tt.fileName, subject, semNo, year, tt.wantSubject, tt.wantSemNo, tt.wantYear)
			}
		})
	}
}
