package domain

import "time"

type Car struct {
	ID        int64
	Label     string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
