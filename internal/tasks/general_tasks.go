package tasks

import (
	"context"
	"log"

	"gorm.io/gorm"

	"sekolahku_echo/internal/models"
)

// LogInfoJobDef encapsulates the log info job
type LogInfoJobDef struct{}

// JobID returns the unique identifier for this job
func (t *LogInfoJobDef) JobID() string {
	return "log_info"
}

// HandleExecution handles logging information
func (t *LogInfoJobDef) HandleExecution(ctx context.Context, db *gorm.DB, job models.ScheduledJob) (map[string]interface{}, error) {
	message, ok := job.Arguments["message"].(string)
	if !ok {
		message = "No message provided"
	}
	log.Printf("[Job: log_info] Message: %s", message)

	return map[string]interface{}{
		"status":  "success",
		"message": message,
	}, nil
}

// LogInfoJob is the singleton instance of LogInfoJobDef
var LogInfoJob = &LogInfoJobDef{}
