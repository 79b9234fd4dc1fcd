package models

import (
	"time"

	"github.com/teambition/rrule-go"
	"gorm.io/gorm"
)

// ScheduledJobStatus represents the status of a scheduled job
type ScheduledJobStatus string

const (
	ScheduledJobStatusActive   ScheduledJobStatus = "active"
	ScheduledJobStatusDone     ScheduledJobStatus = "done"
	ScheduledJobStatusFailure  ScheduledJobStatus = "failure"
	ScheduledJobStatusDisabled ScheduledJobStatus = "disabled"
)

// ScheduledJobType represents the scheduling mode of a job
type ScheduledJobType string

const (
	ScheduledJobTypeOneTime   ScheduledJobType = "onetime"
	ScheduledJobTypeRecurring ScheduledJobType = "recurring"
)

// ScheduledJob tracks work the worker binary should run at a specific time
type ScheduledJob struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	JobName           string                 `gorm:"type:varchar(255)" json:"job_name"`
	Arguments         map[string]interface{} `gorm:"serializer:json" json:"arguments"`
	LastRun           *time.Time             `json:"last_run"`
	Due               time.Time              `gorm:"index:idx_scheduled_jobs_status_due,priority:2,where:deleted_at IS NULL" json:"due"`
	RecurringInterval *string                `gorm:"type:text" json:"recurring_interval"`
	Status            ScheduledJobStatus     `gorm:"type:varchar(20);index:idx_scheduled_jobs_status_due,priority:1,where:deleted_at IS NULL" json:"status"`
	JobType           ScheduledJobType       `gorm:"type:varchar(20);default:'onetime'" json:"job_type"`
	MaxAttempt        int                    `json:"max_attempt"`
}

// NextDue calculates the next due date for a recurring job from its
// RFC 5545 RRULE. One-time jobs keep their due date.
func (j ScheduledJob) NextDue() time.Time {
	if j.JobType == ScheduledJobTypeOneTime {
		return j.Due
	}

	if j.RecurringInterval != nil && *j.RecurringInterval != "" {
		rule, err := rrule.StrToRRule(*j.RecurringInterval)
		if err == nil {
			rule.DTStart(j.Due)
			next := rule.After(time.Now(), true)
			if !next.IsZero() {
				return next
			}
		}
	}
	// Fallback to current Due if parsing fails
	return j.Due
}

// ScheduledJobHistory records one execution attempt of a scheduled job
type ScheduledJobHistory struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	ScheduledJobID uint           `gorm:"index" json:"scheduled_job_id"`

	JobName       string                 `gorm:"type:varchar(255)" json:"job_name"`
	RunAt         time.Time              `json:"run_at"`
	Runtime       int                    `json:"runtime"` // milliseconds
	Status        string                 `gorm:"type:varchar(50)" json:"status"`
	AttemptNumber int                    `json:"attempt_number"`
	Arguments     map[string]interface{} `gorm:"serializer:json" json:"arguments"`
	Result        map[string]interface{} `gorm:"serializer:json" json:"result"`
}
