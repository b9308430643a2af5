package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewExitEvent(t *testing.T) {
	// Wednesday 08:15
	now := time.Date(2025, 3, 12, 8, 15, 0, 0, time.UTC)

	event, err := NewExitEvent(RushedOutcome([]string{"Wallet", "Phone"}), now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if event.ID == uuid.Nil {
		t.Error("Expected non-nil ID")
	}
	if event.WasComplete || !event.DismissedEarly {
		t.Errorf("Expected rushed flags, got complete=%v dismissed=%v", event.WasComplete, event.DismissedEarly)
	}
	if event.DayOfWeek != time.Wednesday {
		t.Errorf("Expected Wednesday, got %v", event.DayOfWeek)
	}
	if event.HourOfDay != 8 {
		t.Errorf("Expected hour 8, got %d", event.HourOfDay)
	}
	if !event.Forgot("Wallet") || !event.Forgot("Phone") || event.Forgot("Keys") {
		t.Errorf("Unexpected forgotten items %v", event.ForgottenItems)
	}
	if event.TimeOfDay() != TimeOfDayMorning {
		t.Errorf("Expected morning, got %v", event.TimeOfDay())
	}
	if !event.IsWeekday(DefaultWeekdays) {
		t.Error("Expected Wednesday to be a weekday")
	}
}

func TestNewExitEventSnapshotsLocalCalendar(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	// 02:00 UTC on Thursday is 21:00 on Wednesday in UTC-5.
	now := time.Date(2025, 3, 13, 2, 0, 0, 0, time.UTC).In(zone)

	event, err := NewExitEvent(PerfectOutcome(), now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if event.DayOfWeek != time.Wednesday || event.HourOfDay != 21 {
		t.Fatalf("Expected Wednesday 21h, got %v %dh", event.DayOfWeek, event.HourOfDay)
	}

	// The snapshot is kept even if the timestamp is later read in another zone.
	event.Timestamp = event.Timestamp.UTC()
	if event.DayOfWeek != time.Wednesday || event.HourOfDay != 21 {
		t.Errorf("Expected snapshot to be unchanged, got %v %dh", event.DayOfWeek, event.HourOfDay)
	}
	if event.Timestamp.Weekday() == event.DayOfWeek {
		t.Error("Expected UTC weekday to differ from captured weekday")
	}
}

func TestNewExitEventCopiesForgottenItems(t *testing.T) {
	forgotten := []string{"Wallet"}
	event, err := NewExitEvent(IncompleteOutcome(forgotten), time.Now())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	forgotten[0] = "Keys"
	if event.ForgottenItems[0] != "Wallet" {
		t.Errorf("Expected event to own its forgotten items, got %v", event.ForgottenItems)
	}
	if event.WasComplete || event.DismissedEarly {
		t.Error("Expected incomplete outcome to be neither complete nor rushed")
	}

	perfect, _ := NewExitEvent(PerfectOutcome(), time.Now())
	if perfect.ForgottenItems == nil || len(perfect.ForgottenItems) != 0 {
		t.Errorf("Expected empty forgotten items, got %v", perfect.ForgottenItems)
	}
	if !perfect.IsPerfect() {
		t.Error("Expected perfect outcome to be perfect")
	}
}

func TestExitEventValidate(t *testing.T) {
	now := time.Now()

	if _, err := NewExitEvent(ExitOutcome{WasComplete: true, DismissedEarly: true}, now); err != ErrCompleteAndRushed {
		t.Errorf("Expected error %v, got %v", ErrCompleteAndRushed, err)
	}
	if _, err := NewExitEvent(ExitOutcome{WasComplete: true, ForgottenItems: []string{"Keys"}}, now); err != ErrCompleteWithMissing {
		t.Errorf("Expected error %v, got %v", ErrCompleteWithMissing, err)
	}

	event := ExitEvent{ID: uuid.New(), Timestamp: now, HourOfDay: 24}
	if err := event.Validate(); err != ErrInvalidHourOfDay {
		t.Errorf("Expected error %v, got %v", ErrInvalidHourOfDay, err)
	}

	event = ExitEvent{ID: uuid.New()}
	if err := event.Validate(); err != ErrEventTimestampEmpty {
		t.Errorf("Expected error %v, got %v", ErrEventTimestampEmpty, err)
	}
}

func TestTimeOfDayForHour(t *testing.T) {
	tests := []struct {
		hour int
		want TimeOfDay
	}{
		{0, TimeOfDayNight},
		{4, TimeOfDayNight},
		{5, TimeOfDayMorning},
		{11, TimeOfDayMorning},
		{12, TimeOfDayAfternoon},
		{16, TimeOfDayAfternoon},
		{17, TimeOfDayEvening},
		{20, TimeOfDayEvening},
		{21, TimeOfDayNight},
		{23, TimeOfDayNight},
	}
	for _, tt := range tests {
		if got := TimeOfDayForHour(tt.hour); got != tt.want {
			t.Errorf("TimeOfDayForHour(%d) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}
