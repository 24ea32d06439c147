package scheduler

import (
	"context"
	"errors"
	"testing"
)

type fakeExpirer struct {
	calls int
	n     int64
	err   error
}

func (f *fakeExpirer) CompleteExpiredPlans(ctx context.Context) (int64, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("job context has no deadline")
	}
	return f.n, f.err
}

func TestRunPlanRollover(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		err  error
	}{
		{"nothing expired", 0, nil},
		{"plans completed", 3, nil},
		{"repository error is swallowed", 0, errors.New("connection reset")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeExpirer{n: tt.n, err: tt.err}
			s := New(f, "@daily")
			s.runPlanRollover()
			if f.calls != 1 {
				t.Errorf("calls = %d, want 1", f.calls)
			}
		})
	}
}

func TestStart(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"seconds field", "0 30 2 * * *", false},
		{"descriptor", "@every 1h", false},
		{"garbage", "not a schedule", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeExpirer{}, tt.spec)
			err := s.Start()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Start() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				s.Stop()
			}
		})
	}
}
