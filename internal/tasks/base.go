package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"sekolahku_echo/internal/models"
)

// BuildScheduledJob is a helper to build ScheduledJob records generically
func BuildScheduledJob(jobName string, args interface{}, due time.Time, recurringInterval *string, jobType models.ScheduledJobType, maxAttempt int) (*models.ScheduledJob, error) {
	argsBytes, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal args: %w", err)
	}

	var mapArgs map[string]interface{}
	if err := json.Unmarshal(argsBytes, &mapArgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into map: %w", err)
	}

	return &models.ScheduledJob{
		JobName:           jobName,
		Arguments:         mapArgs,
		Due:               due,
		RecurringInterval: recurringInterval,
		Status:            models.ScheduledJobStatusActive,
		JobType:           jobType,
		MaxAttempt:        maxAttempt,
	}, nil
}

// decodeArgs round-trips a job's argument map into a typed struct
func decodeArgs(args map[string]interface{}, dest interface{}) error {
	argsBytes, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal args: %w", err)
	}
	if err := json.Unmarshal(argsBytes, dest); err != nil {
		return fmt.Errorf("failed to unmarshal args: %w", err)
	}
	return nil
}
