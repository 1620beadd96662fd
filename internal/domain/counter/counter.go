// Package counter holds the per-day sequence cursor backing priority
// number assignment. The cursor is created lazily at 1 on a day's first
// increment; the atomic increment is the only permitted mint source for
// priority numbers.
package counter

import "context"

// DailyCounter is one day's monotonic cursor.
type DailyCounter struct {
	Day   string `json:"day"`
	Value int    `json:"value"`
}

// Repository defines daily counter persistence.
type Repository interface {
	Get(ctx context.Context, day string) (*DailyCounter, error)
}
