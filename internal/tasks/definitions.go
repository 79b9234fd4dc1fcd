package tasks

// DefineJobs registers all available job handlers
func DefineJobs() {
	// Register general jobs
	RegisterHandler(LogInfoJob.JobID(), LogInfoJob.HandleExecution)

	// Register subscription jobs
	RegisterHandler(ExpireSubscriptionsJob.JobID(), ExpireSubscriptionsJob.HandleExecution)

	// Register notification jobs
	RegisterHandler(SendReceiptJob.JobID(), SendReceiptJob.HandleExecution)
}
