package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/acadrec/acadrec-backend/internal/model"
)

func TestParseGradeSheetCSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []model.GradeImportRow
		wantErr error
	}{
		{
			name:    "header skipped",
			content: "roll_no,grade\n1001,AA\n1002,BB\n",
			want: []model.GradeImportRow{
				{RollNo: "1001", Grade: "AA"},
				{RollNo: "1002", Grade: "BB"},
			},
		},
		{
			name:    "no header",
			content: "1001,AA\n1002,BB\n",
			want: []model.GradeImportRow{
				{RollNo: "1001", Grade: "AA"},
				{RollNo: "1002", Grade: "BB"},
			},
		},
		{
			name:    "blank rows skipped",
			content: "1001,AA\n,\n1002,BB\n",
			want: []model.GradeImportRow{
				{RollNo: "1001", Grade: "AA"},
				{RollNo: "1002", Grade: "BB"},
			},
		},
		{
			name:    "missing grade cell kept for row-level error",
			content: "1001\n",
			want:    []model.GradeImportRow{{RollNo: "1001"}},
		},
		{
			name:    "whitespace trimmed",
			content: "1001, AA \n",
			want:    []model.GradeImportRow{{RollNo: "1001", Grade: "AA"}},
		},
		{
			name:    "header only",
			content: "roll_no,grade\n",
			wantErr: ErrEmptySheet,
		},
		{
			name:    "empty file",
			content: "",
			wantErr: ErrEmptySheet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGradeSheet(strings.NewReader(tt.content), "CS101_sem1_2023.csv")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("row %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseGradeSheetUnsupportedExtension(t *testing.T) {
	_, err := ParseGradeSheet(strings.NewReader("1001,AA\n"), "CS101_sem1_2023.txt")
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
}
