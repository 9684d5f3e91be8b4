package main

import (
	"context"
	"fmt"
	"time"

	"github.com/acadrec/acadrec-backend/internal/config"
	"github.com/acadrec/acadrec-backend/internal/database"
	"github.com/acadrec/acadrec-backend/internal/logger"
	"github.com/acadrec/acadrec-backend/internal/model"
	"github.com/acadrec/acadrec-backend/internal/repository"
	"github.com/acadrec/acadrec-backend/internal/service"
)

// Seeds a small development dataset: one ongoing semester, a subject
// catalog, 50 students and their enrollments.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	studentRepo := repository.NewStudentRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	semesterRepo := repository.NewSemesterRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)

	studentService := service.NewStudentService(studentRepo, log)
	subjectService := service.NewSubjectService(subjectRepo, log)
	semesterService := service.NewSemesterService(pool, semesterRepo, studentRepo, log)
	enrollmentService := service.NewEnrollmentService(pool, enrollmentRepo, studentRepo, subjectRepo, semesterRepo, log)

	year := time.Now().Year()
	semNo := 1

	fmt.Println("=== Seeding Development Data ===")

	// Semester
	sem := &model.Semester{
		SemNo:     semNo,
		Year:      year,
		StartDate: time.Date(year, time.August, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(year, time.December, 20, 0, 0, 0, 0, time.UTC),
		Status:    model.SemesterOngoing,
	}
	if err := semesterService.Create(ctx, sem); err != nil {
		fmt.Printf("Semester %d/%d: %v\n", semNo, year, err)
	} else {
		fmt.Printf("Created semester %d/%d\n", semNo, year)
	}

	// Subject catalog
	subjects := []model.Subject{
		{Code: "CS101", Name: "Introduction to Programming", Credits: 4},
		{Code: "CS103", Name: "Discrete Mathematics", Credits: 3},
		{Code: "MA101", Name: "Calculus I", Credits: 4},
		{Code: "PH101", Name: "Physics I", Credits: 4},
		{Code: "HS101", Name: "Communication Skills", Credits: 2},
		{Code: "PE101", Name: "Physical Education", Credits: 1},
		{Code: "EL201", Name: "Introduction to Music", Credits: 2, IsElective: true},
	}
	for i := range subjects {
		if err := subjectService.Create(ctx, &subjects[i]); err != nil {
			fmt.Printf("Subject %s: %v\n", subjects[i].Code, err)
		}
	}
	fmt.Printf("Seeded %d subjects\n", len(subjects))

	names := []string{
		"Aarav Sharma", "Diya Patel", "Vihaan Reddy", "Ananya Iyer", "Arjun Nair",
		"Ishita Gupta", "Kabir Singh", "Meera Krishnan", "Rohan Deshmukh", "Sanya Kapoor",
		"Aditya Verma", "Kavya Menon", "Dev Malhotra", "Nisha Rao", "Harsh Joshi",
		"Pooja Bhatt", "Karan Mehta", "Riya Choudhury", "Siddharth Pillai", "Tanvi Kulkarni",
		"Ayaan Khan", "Shreya Das", "Vivaan Agarwal", "Lakshmi Venkatesh", "Nikhil Bose",
		"Aisha Sheikh", "Raghav Saxena", "Prisha Jain", "Yash Thakur", "Ritika Sinha",
		"Aryan Chauhan", "Sneha Mishra", "Dhruv Bhatia", "Anika Seth", "Manav Trivedi",
		"Ira Banerjee", "Krish Dutta", "Navya Hegde", "Om Prakash", "Sara Fernandes",
		"Veer Rathore", "Tara Shetty", "Rudra Pandey", "Myra D'Souza", "Atharv Kelkar",
		"Zoya Rizvi", "Laksh Chopra", "Avni Tandon", "Reyansh Goel", "Ahana Mukherjee",
	}

	departments := []string{"CSE", "ECE", "ME", "CE"}

	successCount := 0
	for i, name := range names {
		student := &model.Student{
			RollNo:     year*1000 + i + 1,
			Name:       name,
			Department: departments[i%len(departments)],
			Year:       year,
		}
		if err := studentService.Register(ctx, student); err != nil {
			fmt.Printf("Student %s (%d): %v\n", student.Name, student.RollNo, err)
			continue
		}
		successCount++

		codes := []string{"CS101", "CS103", "MA101", "PH101", "HS101", "PE101"}
		if _, _, err := enrollmentService.EnrollStudentInSubjects(ctx, student.RollNo, codes, semNo, year); err != nil {
			fmt.Printf("Enrollment for %d: %v\n", student.RollNo, err)
		}

		if (i+1)%10 == 0 {
			fmt.Printf("Created %d students...\n", i+1)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", successCount, len(names))
}
