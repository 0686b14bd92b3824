package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	models "trading-reports/database/models_pkg"
	"trading-reports/schemas"
	"trading-reports/testutil"
)

func TestScheduleRunnerRunOnce(t *testing.T) {
	svc := NewScheduleService(testutil.SetupTestDB(t), time.UTC, zerolog.Nop())
	ctx := context.Background()

	for _, at := range []string{"09:00", "09:30"} {
		req := schemas.ReportScheduleCreate{UserID: 1, ReportType: models.ReportTypeDaily, TimeOfDay: at, DaysOfWeek: []int{}}
		if _, err := svc.CreateSchedule(ctx, &req); err != nil {
			t.Fatal(err)
		}
	}

	var seen []int64
	runner := NewScheduleRunner(svc, func(ctx context.Context, run DueRun) error {
		seen = append(seen, run.Schedule.ID)
		if run.Schedule.TimeOfDay == "09:30" {
			return errors.New("smtp unavailable")
		}
		return nil
	}, zerolog.Nop())

	start := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	runner.lastRun = start

	if n := runner.RunOnce(ctx, start.Add(2*time.Hour)); n != 1 {
		t.Errorf("expected 1 dispatched, got %d", n)
	}
	if len(seen) != 2 {
		t.Errorf("expected both schedules offered to dispatch, got %v", seen)
	}

	// the next window starts where the last one ended
	seen = nil
	if n := runner.RunOnce(ctx, start.Add(3*time.Hour)); n != 0 {
		t.Errorf("expected nothing due, got %d", n)
	}
	if len(seen) != 0 {
		t.Errorf("expected no dispatch, got %v", seen)
	}
}
