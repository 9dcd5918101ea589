package store

import (
	"database/sql"
	"testing"

	"github.com/avasquez/platefront/internal/database"
)

func setupRestaurantTest(t *testing.T) (*RestaurantStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ownerID := insertOwner(t, db, "owner@example.com")
	return NewRestaurantStore(db), ownerID
}

func insertOwner(t *testing.T, db *sql.DB, email string) int64 {
	t.Helper()
	result, err := db.Exec(
		`INSERT INTO users (email, name, password_hash, verified) VALUES (?, 'Owner', 'hash', 1)`,
		email,
	)
	if err != nil {
		t.Fatalf("insert owner: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return id
}

func TestRestaurantCreate(t *testing.T) {
	rs, ownerID := setupRestaurantTest(t)

	r, err := rs.Create(ownerID, "Casa Verde", "Lisbon", "Portugal", 35, []string{"portuguese", "seafood"}, "")
	if err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	if r.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if r.OwnerID != ownerID {
		t.Errorf("owner = %d, want %d", r.OwnerID, ownerID)
	}
	if len(r.Cuisines) != 2 || r.Cuisines[0] != "portuguese" {
		t.Errorf("cuisines = %v", r.Cuisines)
	}
}

func TestRestaurantCreateSecondForOwner(t *testing.T) {
	rs, ownerID := setupRestaurantTest(t)

	if _, err := rs.Create(ownerID, "Casa Verde", "Lisbon", "Portugal", 35, nil, ""); err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	if _, err := rs.Create(ownerID, "Casa Azul", "Porto", "Portugal", 30, nil, ""); err == nil {
		t.Fatal("expected error for second restaurant per owner, got nil")
	}
}

func TestRestaurantGetByOwnerID(t *testing.T) {
	rs, ownerID := setupRestaurantTest(t)

	created, err := rs.Create(ownerID, "Casa Verde", "Lisbon", "Portugal", 35, nil, "")
	if err != nil {
		t.Fatalf("create restaurant: %v", err)
	}

	r, err := rs.GetByOwnerID(ownerID)
	if err != nil {
		t.Fatalf("get by owner: %v", err)
	}
	if r == nil || r.ID != created.ID {
		t.Fatalf("got %+v, want restaurant %d", r, created.ID)
	}

	none, err := rs.GetByOwnerID(ownerID + 100)
	if err != nil {
		t.Fatalf("get by owner: %v", err)
	}
	if none != nil {
		t.Error("expected nil for owner without restaurant")
	}
}

func TestRestaurantSearchByCityCaseInsensitive(t *testing.T) {
	rs, ownerID := setupRestaurantTest(t)

	if _, err := rs.Create(ownerID, "Casa Verde", "Lisbon", "Portugal", 35, nil, ""); err != nil {
		t.Fatalf("create restaurant: %v", err)
	}

	for _, city := range []string{"Lisbon", "lisbon", "LISBON"} {
		found, err := rs.SearchByCity(city)
		if err != nil {
			t.Fatalf("search %q: %v", city, err)
		}
		if len(found) != 1 {
			t.Errorf("search %q: got %d results, want 1", city, len(found))
		}
	}

	empty, err := rs.SearchByCity("Madrid")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("search Madrid: got %d results, want 0", len(empty))
	}
}

func TestRestaurantUpdate(t *testing.T) {
	rs, ownerID := setupRestaurantTest(t)

	created, err := rs.Create(ownerID, "Casa Verde", "Lisbon", "Portugal", 35, nil, "")
	if err != nil {
		t.Fatalf("create restaurant: %v", err)
	}

	r, err := rs.Update(created.ID, "Casa Verde Nova", "Porto", "Portugal", 25, []string{"fusion"}, "https://img.example.com/r.jpg")
	if err != nil {
		t.Fatalf("update restaurant: %v", err)
	}
	if r.Name != "Casa Verde Nova" {
		t.Errorf("name = %q", r.Name)
	}
	if r.City != "Porto" {
		t.Errorf("city = %q", r.City)
	}
	if len(r.Cuisines) != 1 || r.Cuisines[0] != "fusion" {
		t.Errorf("cuisines = %v", r.Cuisines)
	}
}
