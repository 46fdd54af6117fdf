package device

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedStoreDevice(t *testing.T, s *Store, id string, isOn bool) {
	t.Helper()
	now := time.Now().UTC()
	err := s.Create(context.Background(), &Device{
		ID:        id,
		Name:      "Lamp",
		Type:      TypeLight,
		Protocol:  ProtocolWiFi,
		IsOn:      isOn,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seeding device: %v", err)
	}
}

func TestStore_CommitStateChange(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)
	seedStoreDevice(t, s, "dev-1", false)

	ctx := context.Background()
	entry := &HistoryEntry{DeviceID: "dev-1", DeviceName: "Lamp", Action: "turned on", Actor: "alice"}
	if err := s.CommitStateChange(ctx, "dev-1", true, entry); err != nil {
		t.Fatalf("CommitStateChange error: %v", err)
	}

	d, err := s.GetByID(ctx, "dev-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if !d.IsOn {
		t.Error("state not committed")
	}

	entries, err := s.ListByDevice(ctx, "dev-1", 10)
	if err != nil {
		t.Fatalf("ListByDevice error: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "turned on" {
		t.Errorf("history = %+v, want one 'turned on' entry", entries)
	}
}

func TestStore_CommitStateChange_UnknownDevice(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)

	ctx := context.Background()
	entry := &HistoryEntry{DeviceID: "ghost", DeviceName: "Ghost", Action: "turned on", Actor: "alice"}
	if err := s.CommitStateChange(ctx, "ghost", true, entry); !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("CommitStateChange error = %v, want ErrDeviceNotFound", err)
	}

	entries, err := s.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("history written for unknown device: %+v", entries)
	}
}

func TestStore_CommitStateChange_RollsBackOnHistoryFailure(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)
	seedStoreDevice(t, s, "dev-1", false)

	if _, err := db.Exec(`DROP TABLE device_history`); err != nil {
		t.Fatalf("dropping history table: %v", err)
	}

	ctx := context.Background()
	entry := &HistoryEntry{DeviceID: "dev-1", DeviceName: "Lamp", Action: "turned on", Actor: "alice"}
	if err := s.CommitStateChange(ctx, "dev-1", true, entry); err == nil {
		t.Fatal("CommitStateChange succeeded with history insert broken")
	}

	d, err := s.GetByID(ctx, "dev-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if d.IsOn {
		t.Error("state change survived a failed history insert")
	}
}

func TestStore_CreateWithHistory_RollsBackOnHistoryFailure(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)

	if _, err := db.Exec(`DROP TABLE device_history`); err != nil {
		t.Fatalf("dropping history table: %v", err)
	}

	ctx := context.Background()
	now := time.Now().UTC()
	d := &Device{
		ID: "dev-1", Name: "Lamp", Type: TypeLight, Protocol: ProtocolWiFi,
		CreatedAt: now, UpdatedAt: now,
	}
	entry := &HistoryEntry{DeviceID: "dev-1", DeviceName: "Lamp", Action: "added", Actor: "alice"}
	if err := s.CreateWithHistory(ctx, d, entry); err == nil {
		t.Fatal("CreateWithHistory succeeded with history insert broken")
	}

	if _, err := s.GetByID(ctx, "dev-1"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("GetByID = %v, want ErrDeviceNotFound after rollback", err)
	}
}

func TestStore_DeleteWithHistory(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)
	seedStoreDevice(t, s, "dev-1", false)

	ctx := context.Background()
	entry := &HistoryEntry{DeviceID: "dev-1", DeviceName: "Lamp", Action: "removed", Actor: "alice"}
	if err := s.DeleteWithHistory(ctx, "dev-1", entry); err != nil {
		t.Fatalf("DeleteWithHistory error: %v", err)
	}

	if _, err := s.GetByID(ctx, "dev-1"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrDeviceNotFound", err)
	}
	entries, err := s.ListByDevice(ctx, "dev-1", 10)
	if err != nil {
		t.Fatalf("ListByDevice error: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "removed" {
		t.Errorf("history = %+v, want one 'removed' entry", entries)
	}
}
