package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"sekolahku_echo/internal/models"
	"sekolahku_echo/internal/services"
)

func main() {
	jobName := flag.String("job_name", "", "Name of the job (mandatory)")
	argsStr := flag.String("arguments", "{}", "JSON arguments for the job")
	dueStr := flag.String("due", "", "Due date (mandatory, format: 2006-01-02 15:04)")
	jobType := flag.String("jobtype", "onetime", "Job type (optional, default: onetime)")
	recurring := flag.String("recurring", "", "Recurring interval rule (optional, RFC 5545 RRULE)")
	maxAttempt := flag.Int("max_attempt", 3, "Max attempts (optional, default: 3)")

	flag.Parse()

	if *jobName == "" || *dueStr == "" {
		fmt.Println("Usage: schedule_task -job_name <name> -due <YYYY-MM-DD HH:MM> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := services.InitDB(dsn)
	if err != nil {
		log.Fatalf("Failed to connect DB: %v", err)
	}

	var args map[string]interface{}
	if err := json.Unmarshal([]byte(*argsStr), &args); err != nil {
		log.Fatalf("Invalid JSON arguments: %v", err)
	}

	due, err := time.Parse(time.RFC3339, *dueStr)
	if err != nil {
		due, err = time.ParseInLocation("2006-01-02 15:04", *dueStr, time.Local)
		if err != nil {
			log.Fatalf("Invalid due date format. Use '2006-01-02 15:04' (Local) or RFC3339: %v", err)
		}
	}

	var recurringPtr *string
	if *recurring != "" {
		recurringPtr = recurring
	}

	job := models.ScheduledJob{
		JobName:           *jobName,
		Arguments:         args,
		Due:               due,
		JobType:           models.ScheduledJobType(*jobType),
		RecurringInterval: recurringPtr,
		MaxAttempt:        *maxAttempt,
		Status:            models.ScheduledJobStatusActive,
	}

	if err := db.Create(&job).Error; err != nil {
		log.Fatalf("Failed to create job: %v", err)
	}

	fmt.Printf("Successfully created job ID: %d\n", job.ID)
	fmt.Printf("Job: %s\nDue: %s\nType: %s\n", job.JobName, job.Due, job.JobType)
}
