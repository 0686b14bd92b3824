package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	models "trading-reports/database/models_pkg"
	"trading-reports/schemas"
	"trading-reports/testutil"
)

func TestNextRun(t *testing.T) {
	// 2026-10-19 is a Monday
	monday := func(h, m int) time.Time { return time.Date(2026, 10, 19, h, m, 0, 0, time.UTC) }
	est := time.FixedZone("EST", -5*3600)

	tests := []struct {
		name string
		at   string
		days []int
		from time.Time
		loc  *time.Location
		want time.Time
	}{
		{"later the same day", "09:00", []int{0}, monday(8, 0), time.UTC, monday(9, 0)},
		{"strictly after", "09:00", []int{0}, monday(9, 0), time.UTC, monday(9, 0).AddDate(0, 0, 7)},
		{"every day", "09:00", nil, monday(10, 0), time.UTC, monday(9, 0).AddDate(0, 0, 1)},
		{"sunday is six", "09:00", []int{6}, monday(8, 0), time.UTC, monday(9, 0).AddDate(0, 0, 6)},
		{"friday from monday", "16:30", []int{4}, monday(17, 0), time.UTC, time.Date(2026, 10, 23, 16, 30, 0, 0, time.UTC)},
		{"single digit hour", "7:05", nil, monday(6, 0), time.UTC, monday(7, 5)},
		{"fixed zone", "09:00", []int{0}, monday(8, 0), est, monday(14, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &models.ReportSchedule{TimeOfDay: tt.at, DaysOfWeek: datatypes.NewJSONSlice(tt.days)}
			got, err := NextRun(s, tt.from, tt.loc)
			if err != nil {
				t.Fatalf("NextRun: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNextRunRejectsMalformedSchedule(t *testing.T) {
	tests := []struct {
		name string
		at   string
		days []int
	}{
		{"words", "quarter past nine", nil},
		{"hour out of range", "25:00", nil},
		{"day out of range", "09:00", []int{7}},
		{"negative day", "09:00", []int{-1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &models.ReportSchedule{TimeOfDay: tt.at, DaysOfWeek: datatypes.NewJSONSlice(tt.days)}
			if _, err := NextRun(s, time.Now(), time.UTC); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func boolPtr(v bool) *bool { return &v }

func TestDueSchedules(t *testing.T) {
	svc := NewScheduleService(testutil.SetupTestDB(t), time.UTC, zerolog.Nop())
	ctx := context.Background()

	create := func(req schemas.ReportScheduleCreate) int64 {
		t.Helper()
		resp, err := svc.CreateSchedule(ctx, &req)
		if err != nil {
			t.Fatalf("CreateSchedule: %v", err)
		}
		return resp.ID
	}

	due := create(schemas.ReportScheduleCreate{UserID: 1, ReportType: models.ReportTypeDaily, DaysOfWeek: []int{}})
	create(schemas.ReportScheduleCreate{UserID: 1, ReportType: models.ReportTypeDaily, IsActive: boolPtr(false)})
	create(schemas.ReportScheduleCreate{UserID: 2, ReportType: models.ReportTypeWeekly, TimeOfDay: "later"})
	create(schemas.ReportScheduleCreate{UserID: 2, ReportType: models.ReportTypeDaily, TimeOfDay: "18:00"})

	from := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	to := from.Add(2 * time.Hour)

	runs, err := svc.DueSchedules(ctx, from, to)
	if err != nil {
		t.Fatalf("DueSchedules: %v", err)
	}
	if len(runs) != 1 || runs[0].Schedule.ID != due {
		t.Fatalf("expected only schedule %d due, got %+v", due, runs)
	}
	if want := from.Add(time.Hour); !runs[0].RunAt.Equal(want) {
		t.Errorf("expected run at %v, got %v", want, runs[0].RunAt)
	}

	if err := svc.MarkRun(ctx, due, runs[0].RunAt); err != nil {
		t.Fatalf("MarkRun: %v", err)
	}

	runs, err = svc.DueSchedules(ctx, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("schedule already ran in the window, got %d due", len(runs))
	}
}

func TestUpdateAndListSchedules(t *testing.T) {
	svc := NewScheduleService(testutil.SetupTestDB(t), time.UTC, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.CreateSchedule(ctx, &schemas.ReportScheduleCreate{UserID: 5, ReportType: models.ReportTypeDaily})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateSchedule(ctx, created.ID, &schemas.ReportScheduleUpdate{
		ReportType:    models.ReportTypeWeekly,
		TimeOfDay:     "17:45",
		DaysOfWeek:    []int{4},
		EmailDelivery: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("UpdateSchedule: %v", err)
	}
	if updated.ReportType != models.ReportTypeWeekly || updated.TimeOfDay != "17:45" || updated.EmailDelivery {
		t.Errorf("update not applied: %+v", updated)
	}
	if !updated.IsActive {
		t.Error("omitted is_active should default to true")
	}

	list, err := svc.ListSchedules(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].TimeOfDay != "17:45" {
		t.Errorf("unexpected schedules: %+v", list)
	}

	if err := svc.MarkRun(ctx, 404, time.Now()); err == nil {
		t.Error("expected an error marking a missing schedule")
	}
}
