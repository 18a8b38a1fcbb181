package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/pinboard/internal/model"
)

// =========================================================================
// SHARED-POOL TESTS
// =========================================================================

// One DB hands out both repositories; the server uses Pins() and Users()
// against the same file the CLI opens. Exercise both side by side to make
// sure neither method set shadows or disturbs the other.
func TestDBServesBothRepositories(t *testing.T) {
	db := newTestDB(t)
	pins := db.Pins()
	users := db.Users()

	pin := &model.Pin{Name: "shared pool", Lat: "1", Lng: "2", Date: "2024-06-01"}
	if err := pins.Create(context.Background(), pin); err != nil {
		t.Fatalf("pins.Create() error = %v", err)
	}

	user := &model.User{Username: "admin", PasswordHash: "deadbeef"}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("users.Create() error = %v", err)
	}

	gotPins, err := pins.List(context.Background())
	if err != nil {
		t.Fatalf("pins.List() error = %v", err)
	}
	if len(gotPins) != 1 || gotPins[0].ID != pin.ID {
		t.Errorf("pins.List() = %+v, want the one created pin", gotPins)
	}

	gotUsers, err := users.List(context.Background())
	if err != nil {
		t.Fatalf("users.List() error = %v", err)
	}
	if len(gotUsers) != 1 || gotUsers[0].Username != "admin" {
		t.Errorf("users.List() = %+v, want the one created user", gotUsers)
	}

	// Deletes address different tables: removing the user must not touch
	// the pin, and vice versa.
	if err := users.Delete(context.Background(), "admin"); err != nil {
		t.Fatalf("users.Delete() error = %v", err)
	}
	if err := pins.Delete(context.Background(), pin.ID); err != nil {
		t.Fatalf("pins.Delete() error = %v", err)
	}
}
