package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rackworks/rackviz/pkg/rack"
)

func testRack(name string) *rack.Rack {
	return &rack.Rack{
		Name:   name,
		Height: 42,
		Width:  rack.Width19,
		Devices: []rack.PlacedDevice{
			{ID: "sw", DeviceType: "switch-48p", Position: 40, Face: rack.FaceFront},
		},
	}
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec, err := s.Create(ctx, testRack("row-a-01"))
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID == "" {
		t.Fatal("Create did not assign an ID")
	}
	if rec.Rack.ID != rec.ID {
		t.Errorf("rack ID %q not synced to record ID %q", rec.Rack.ID, rec.ID)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rack.Name != "row-a-01" {
		t.Errorf("Name = %s", got.Rack.Name)
	}

	updated := testRack("row-a-01")
	updated.Height = 48
	rec2, err := s.Update(ctx, rec.ID, updated)
	if err != nil {
		t.Fatal(err)
	}
	if rec2.Rack.Height != 48 {
		t.Errorf("Height = %d after update", rec2.Rack.Height)
	}
	if rec2.UpdatedAt.Before(rec.UpdatedAt) {
		t.Error("UpdatedAt went backwards")
	}

	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: %v", err)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: %v", err)
	}
	if _, err := s.Update(ctx, "missing", testRack("x")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: %v", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: %v", err)
	}
}

func TestMemoryStoreListSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, name := range []string{"row-c", "row-a", "row-b"} {
		if _, err := s.Create(ctx, testRack(name)); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("List = %d records", len(recs))
	}
	for i, want := range []string{"row-a", "row-b", "row-c"} {
		if recs[i].Rack.Name != want {
			t.Errorf("List[%d] = %s, want %s", i, recs[i].Rack.Name, want)
		}
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec, err := s.Create(ctx, testRack("row-a"))
	if err != nil {
		t.Fatal(err)
	}

	// Mutating a returned record must not affect the stored copy.
	rec.Rack.Devices[0].Position = 1
	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rack.Devices[0].Position != 40 {
		t.Error("stored rack mutated through returned record")
	}
}
