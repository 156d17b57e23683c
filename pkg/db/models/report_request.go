package models

import "time"

// ReportRequest counts how often each named report has been requested.
type ReportRequest struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ReportName      string    `gorm:"column:report_name;not null;uniqueIndex"`
	RequestCount    int       `gorm:"column:request_count;not null;default:0"`
	LastRequestDate time.Time `gorm:"column:last_request_date;not null"`
}
