package services

import "time"

// WeekBounds returns the Monday 00:00:00 and Sunday 23:59:59 enclosing t in
// the same ISO week, using the calendar date in UTC.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	// days since Monday; time.Weekday counts Sunday as 0
	offset := (int(t.Weekday()) + 6) % 7
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 6).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return start, end
}

// WeekDay truncates t to its calendar date in UTC.
func WeekDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
