package booking

import (
	"testing"
	"time"
)

func TestSlotID(t *testing.T) {
	t.Run("same start time always yields the same identifier", func(t *testing.T) {
		start := time.Date(2025, time.March, 19, 9, 0, 0, 0, time.UTC)
		if SlotID(start) != SlotID(start) {
			t.Fatal("expected identical identifiers for the same start time")
		}
	})

	t.Run("sub-minute differences are ignored", func(t *testing.T) {
		start := time.Date(2025, time.March, 19, 9, 0, 0, 0, time.UTC)
		withSeconds := start.Add(42 * time.Second)
		if SlotID(start) != SlotID(withSeconds) {
			t.Fatal("expected identifiers to match within the same minute")
		}
	})

	t.Run("different minutes yield different identifiers", func(t *testing.T) {
		start := time.Date(2025, time.March, 19, 9, 0, 0, 0, time.UTC)
		later := start.Add(time.Minute)
		if SlotID(start) == SlotID(later) {
			t.Fatal("expected distinct identifiers for distinct minutes")
		}
	})

	t.Run("different days yield different identifiers", func(t *testing.T) {
		start := time.Date(2025, time.March, 19, 9, 0, 0, 0, time.UTC)
		nextDay := start.AddDate(0, 0, 1)
		if SlotID(start) == SlotID(nextDay) {
			t.Fatal("expected distinct identifiers for distinct days")
		}
	})
}

func TestNewTimeSlot(t *testing.T) {
	start := time.Date(2025, time.March, 19, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	slot := NewTimeSlot(start, end, true)

	if slot.ID != SlotID(start) {
		t.Fatalf("expected derived slot ID, got %v", slot.ID)
	}
	if !slot.Start.Equal(start) || !slot.End.Equal(end) {
		t.Fatalf("expected interval %v-%v, got %v-%v", start, end, slot.Start, slot.End)
	}
	if !slot.Available {
		t.Fatal("expected slot to be available")
	}
}
