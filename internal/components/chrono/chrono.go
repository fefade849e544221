package chrono

import (
	"context"
	"time"
)

// API is the interface that anything depending on the system clock should use.
type API interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, whichever is first.
	Sleep(ctx context.Context, d time.Duration) error
}

// StandardImpl is the implementation of API using the standard library.
type StandardImpl struct{}

func NewStandardImpl() StandardImpl {
	return StandardImpl{}
}

func (StandardImpl) Now() time.Time {
	return time.Now()
}

func (StandardImpl) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FakeImpl never blocks, it advances its clock by every slept duration and
// remembers each one.
type FakeImpl struct {
	Current time.Time
	Slept   []time.Duration
}

func (f *FakeImpl) Now() time.Time {
	return f.Current
}

func (f *FakeImpl) Sleep(ctx context.Context, d time.Duration) error {
	f.Slept = append(f.Slept, d)
	f.Current = f.Current.Add(d)
	return ctx.Err()
}
