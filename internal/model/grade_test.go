package model

import (
	"errors"
	"testing"
)

func TestParseGradeLetter(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    GradeLetter
		wantErr bool
	}{
		{"plain", "AA", GradeAA, false},
		{"lowercase", "bc", GradeBC, false},
		{"whitespace", "  DD ", GradeDD, false},
		{"fail grade", "F", GradeF, false},
		{"pass grade", "pp", GradePP, false},
		{"incomplete", "I", GradeI, false},
		{"unknown", "ZZ", "", true},
		{"empty", "", "", true},
		{"numeric", "10", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGradeLetter(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseGradeLetter(%q) expected error, got %v", tt.in, got)
				}
				var unknown *ErrUnknownGrade
				if !errors.As(err, &unknown) {
					t.Errorf("expected ErrUnknownGrade, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGradeLetter(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseGradeLetter(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGradeLetterRecordable(t *testing.T) {
	recordable := []GradeLetter{GradeAA, GradeAB, GradeBB, GradeBC, GradeCC, GradeCD, GradeDD, GradeF}
	for _, g := range recordable {
		if !g.Recordable() {
			t.Errorf("%s should be recordable", g)
		}
	}
	for _, g := range []GradeLetter{GradePP, GradeNP, GradeI} {
		if g.Recordable() {
			t.Errorf("%s should not be recordable", g)
		}
	}
}

func TestGradeLetterPoints(t *testing.T) {
	tests := []struct {
		grade       GradeLetter
		policy      PPPolicy
		wantPoints  float64
		wantCounted bool
	}{
		{GradeAA, PPPolicyCredit, 10, true},
		{GradeAB, PPPolicyCredit, 9, true},
		{GradeBB, PPPolicyCredit, 8, true},
		{GradeBC, PPPolicyCredit, 7, true},
		{GradeCC, PPPolicyCredit, 6, true},
		{GradeCD, PPPolicyCredit, 5, true},
		{GradeDD, PPPolicyCredit, 4, true},
		{GradeF, PPPolicyCredit, 0, true},
		{GradePP, PPPolicyCredit, 1, true},
		{GradePP, PPPolicyExclude, 0, false},
		{GradeNP, PPPolicyCredit, 0, false},
		{GradeNP, PPPolicyExclude, 0, false},
		{GradeI, PPPolicyCredit, 0, false},
	}

	for _, tt := range tests {
		points, counted := tt.grade.Points(tt.policy)
		if points != tt.wantPoints || counted != tt.wantCounted {
			t.Errorf("%s.Points(%s) = (%v, %v), want (%v, %v)",
				tt.grade, tt.policy, points, counted, tt.wantPoints, tt.wantCounted)
		}
	}
}

func TestParsePPPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    PPPolicy
		wantErr bool
	}{
		{"credit", PPPolicyCredit, false},
		{"EXCLUDE", PPPolicyExclude, false},
		{" credit ", PPPolicyCredit, false},
		{"both", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePPPolicy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePPPolicy(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePPPolicy(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePPPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
