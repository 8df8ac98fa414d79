package games

import "time"

//go:generate mockgen -destination=mocks/mock_time_provider.go -package=mocks -source=time_provider.go

// TimeProvider lets tests pin the LastUpdated stamp.
type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (r *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
