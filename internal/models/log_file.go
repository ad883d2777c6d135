package models

import "time"

const reportDateLayout = "2006.01.02"

// LogFileDescriptor identifies the rotated access log chosen for a run.
type LogFileDescriptor struct {
	Path         string
	Date         time.Time
	IsCompressed bool
}

// FormatReportDate renders date the way report file names and logs carry it (YYYY.MM.DD).
func FormatReportDate(date time.Time) string {
	return date.Format(reportDateLayout)
}

// ParseReportDate is the inverse of FormatReportDate.
func ParseReportDate(s string) (time.Time, error) {
	return time.Parse(reportDateLayout, s)
}
