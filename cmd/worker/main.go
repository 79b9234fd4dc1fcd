package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"sekolahku_echo/internal/models"
	"sekolahku_echo/internal/services"
	"sekolahku_echo/internal/tasks"
)

const pollInterval = 1 * time.Minute

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize job registry
	tasks.DefineJobs()

	log.Println("Worker started. Waiting for next tick...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down worker...")
		cancel()
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	// Run once immediately, then on every tick
	processDueJobs(ctx, db)

	for {
		select {
		case <-ticker.C:
			processDueJobs(ctx, db)
		case <-ctx.Done():
			return
		}
	}
}

func processDueJobs(ctx context.Context, db *gorm.DB) {
	var dueJobs []models.ScheduledJob
	now := time.Now()
	if err := db.Where("status = ? AND due <= ?", models.ScheduledJobStatusActive, now).Find(&dueJobs).Error; err != nil {
		log.Printf("Error fetching due jobs: %v", err)
		return
	}

	if len(dueJobs) == 0 {
		return
	}

	log.Printf("Found %d due jobs.", len(dueJobs))

	for _, job := range dueJobs {
		if ctx.Err() != nil {
			return
		}
		executeJob(ctx, db, job, 1)
	}
}

func executeJob(ctx context.Context, db *gorm.DB, job models.ScheduledJob, curAttempt int) {
	log.Printf("Processing job: %s (ID: %d)", job.JobName, job.ID)

	handler, found := tasks.GetHandler(job.JobName)
	if !found {
		log.Printf("Job handler not found for: %s. Marking as failure.", job.JobName)

		now := time.Now()
		db.Model(&job).Updates(map[string]interface{}{
			"status":   models.ScheduledJobStatusFailure,
			"last_run": &now,
		})

		history := models.ScheduledJobHistory{
			ScheduledJobID: job.ID,
			JobName:        job.JobName,
			RunAt:          now,
			Status:         "handler_not_found",
			AttemptNumber:  curAttempt,
			Arguments:      job.Arguments,
			Result:         map[string]interface{}{"error": "Handler not found"},
		}
		db.Create(&history)
		return
	}

	startTime := time.Now()
	result, err := handler(ctx, db, job)
	runtimeMs := int(time.Since(startTime).Milliseconds())

	status := "success"
	var resultData map[string]interface{}
	if err != nil {
		status = "failure"
		resultData = map[string]interface{}{"error": err.Error()}
		log.Printf("Job %s failed: %v", job.JobName, err)
	} else {
		resultData = result
		log.Printf("Job %s completed successfully.", job.JobName)
	}

	history := models.ScheduledJobHistory{
		ScheduledJobID: job.ID,
		JobName:        job.JobName,
		RunAt:          startTime,
		Runtime:        runtimeMs,
		Status:         status,
		AttemptNumber:  curAttempt,
		Arguments:      job.Arguments,
		Result:         resultData,
	}
	db.Create(&history)

	jobUpdates := map[string]interface{}{
		"last_run": &startTime,
	}

	if status != "success" {
		if curAttempt < job.MaxAttempt {
			executeJob(ctx, db, job, curAttempt+1)
			return
		}
		jobUpdates["status"] = models.ScheduledJobStatusFailure
	} else {
		switch job.JobType {
		case models.ScheduledJobTypeOneTime:
			jobUpdates["status"] = models.ScheduledJobStatusDone
		case models.ScheduledJobTypeRecurring:
			nextDue := job.NextDue()
			// guard against rules that stop producing future occurrences
			if nextDue.After(job.Due) {
				jobUpdates["status"] = models.ScheduledJobStatusActive
				jobUpdates["due"] = nextDue
			} else {
				jobUpdates["status"] = models.ScheduledJobStatusDone
			}
		}
	}

	db.Model(&job).Updates(jobUpdates)
}
