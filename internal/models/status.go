package models

import "time"

type ConvertStatus struct {
	Path         string    `json:"path"`
	Format       string    `json:"format"`
	Statements   int       `json:"statements"`
	Tables       int       `json:"tables"`
	LastRunTime  time.Time `json:"last_run_time"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
}
