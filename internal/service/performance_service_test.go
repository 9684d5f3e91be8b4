package service

import (
	"reflect"
	"testing"

	"github.com/acadrec/acadrec-backend/internal/model"
)

func gradeRow(grade model.GradeLetter, credits int) model.GradeWithCredits {
	return model.GradeWithCredits{Grade: grade, Credits: credits}
}

func TestWeightedSPI(t *testing.T) {
	tests := []struct {
		name   string
		rows   []model.GradeWithCredits
		policy model.PPPolicy
		want   float64
	}{
		{
			// 4*10 + 3*8 = 64 over 7 credits
			name:   "known scenario rounds to 9.14",
			rows:   []model.GradeWithCredits{gradeRow(model.GradeAA, 4), gradeRow(model.GradeBB, 3)},
			policy: model.PPPolicyCredit,
			want:   9.14,
		},
		{
			name:   "all top grades",
			rows:   []model.GradeWithCredits{gradeRow(model.GradeAA, 4), gradeRow(model.GradeAA, 3)},
			policy: model.PPPolicyCredit,
			want:   10,
		},
		{
			name:   "fail counts with zero points",
			rows:   []model.GradeWithCredits{gradeRow(model.GradeAA, 3), gradeRow(model.GradeF, 3)},
			policy: model.PPPolicyCredit,
			want:   5,
		},
		{
			name:   "no rows",
			rows:   nil,
			policy: model.PPPolicyCredit,
			want:   0,
		},
		{
			name:   "only excluded grades",
			rows:   []model.GradeWithCredits{gradeRow(model.GradeNP, 3), gradeRow(model.GradeI, 2)},
			policy: model.PPPolicyCredit,
			want:   0,
		},
		{
			// PP as 1 point drags the mean down: (4*10 + 2*1) / 6 = 7
			name:   "pp under credit policy",
			rows:   []model.GradeWithCredits{gradeRow(model.GradeAA, 4), gradeRow(model.GradePP, 2)},
			policy: model.PPPolicyCredit,
			want:   7,
		},
		{
			// PP excluded entirely: 40 / 4 = 10
			name:   "pp under exclude policy",
			rows:   []model.GradeWithCredits{gradeRow(model.GradeAA, 4), gradeRow(model.GradePP, 2)},
			policy: model.PPPolicyExclude,
			want:   10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := weightedSPI(tt.rows, tt.policy); got != tt.want {
				t.Errorf("weightedSPI() = %v, want %v", got, tt.want)
			}
		})
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestWeightedCPI(t *testing.T) {
	tests := []struct {
		name        string
		rows        []model.SemesterSPICredits
		wantCPI     float64
		wantCredits int
	}{
		{
			name: "two semesters",
			rows: []model.SemesterSPICredits{
				{SemNo: 1, SPI: floatPtr(8), Credits: intPtr(20)},
				{SemNo: 2, SPI: floatPtr(9), Credits: intPtr(20)},
			},
			wantCPI:     8.5,
			wantCredits: 40,
		},
		{
			name: "semester without spi is skipped",
			rows: []model.SemesterSPICredits{
				{SemNo: 1, SPI: floatPtr(8), Credits: intPtr(20)},
				{SemNo: 2, SPI: nil, Credits: intPtr(18)},
			},
			wantCPI:     8,
			wantCredits: 20,
		},
		{
			name: "semester without credits is skipped",
			rows: []model.SemesterSPICredits{
				{SemNo: 1, SPI: floatPtr(8), Credits: intPtr(20)},
				{SemNo: 2, SPI: floatPtr(9), Credits: nil},
			},
			wantCPI:     8,
			wantCredits: 20,
		},
		{
			name:        "no usable rows",
			rows:        []model.SemesterSPICredits{{SemNo: 1, SPI: nil, Credits: nil}},
			wantCPI:     0,
			wantCredits: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpi, credits := weightedCPI(tt.rows)
			if cpi != tt.wantCPI || credits != tt.wantCredits {
				t.Errorf("weightedCPI() = (%v, %d), want (%v, %d)", cpi, credits, tt.wantCPI, tt.wantCredits)
			}
		})
	}
}

// CPI stays between the smallest and largest SPI that feed it.
func TestWeightedCPIBetweenness(t *testing.T) {
	rows := []model.SemesterSPICredits{
		{SemNo: 1, SPI: floatPtr(6.2), Credits: intPtr(22)},
		{SemNo: 2, SPI: floatPtr(9.1), Credits: intPtr(18)},
		{SemNo: 3, SPI: floatPtr(7.7), Credits: intPtr(20)},
	}
	cpi, _ := weightedCPI(rows)
	if cpi < 6.2 || cpi > 9.1 {
		t.Errorf("CPI %v outside [6.2, 9.1]", cpi)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{9.142857142857142, 9.14},
		{9.146, 9.15},
		{10, 10},
		{0, 0},
		{7.999999, 8},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestChunkRolls(t *testing.T) {
	rolls := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		n    int
		want [][]int
	}{
		{"zero keeps one chunk", 0, [][]int{{1, 2, 3, 4, 5}}},
		{"negative keeps one chunk", -1, [][]int{{1, 2, 3, 4, 5}}},
		{"larger than cohort keeps one chunk", 10, [][]int{{1, 2, 3, 4, 5}}},
		{"even split with remainder", 2, [][]int{{1, 2}, {3, 4}, {5}}},
		{"chunk of one", 1, [][]int{{1}, {2}, {3}, {4}, {5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chunkRolls(rolls, tt.n); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("chunkRolls(%v, %d) = %v, want %v", rolls, tt.n, got, tt.want)
			}
		})
	}
}
