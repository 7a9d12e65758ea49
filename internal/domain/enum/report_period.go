package enum

import (
	"fmt"
	"strings"
)

// ReportPeriod is the window a sales report covers
type ReportPeriod string

const (
	ReportPeriodToday ReportPeriod = "today"
	ReportPeriodWeek  ReportPeriod = "week"
	ReportPeriodMonth ReportPeriod = "month"
)

func (p ReportPeriod) String() string {
	return string(p)
}

// ParseReportPeriod accepts today, week or month in any case. An empty
// string defaults to today.
func ParseReportPeriod(s string) (ReportPeriod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return ReportPeriodToday, nil
	case "week":
		return ReportPeriodWeek, nil
	case "month":
		return ReportPeriodMonth, nil
	}
	return "", fmt.Errorf("unknown report period %q", s)
}
