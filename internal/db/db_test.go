package db

import (
	"context"
	"testing"
	"time"
)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	dbPath := PathIn(t.TempDir())

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, dbPath
}

func TestOpenRunsMigrations(t *testing.T) {
	db, _ := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'kv'`).Scan(&name)
	if err != nil {
		t.Fatalf("kv table missing: %v", err)
	}
}

func TestKVRoundTrip(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	got, err := db.Get(ctx, "user")
	if err != nil || got != nil {
		t.Fatalf("Get on empty table = %q, %v", got, err)
	}

	if err := db.Put(ctx, "user", []byte(`{"id":"1"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := db.Put(ctx, "user", []byte(`{"id":"2"}`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}

	got, err = db.Get(ctx, "user")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"id":"2"}` {
		t.Fatalf("Get = %q", got)
	}

	if err := db.Delete(ctx, "user"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := db.Delete(ctx, "user"); err != nil {
		t.Fatalf("Delete of missing key: %v", err)
	}
	if got, _ := db.Get(ctx, "user"); got != nil {
		t.Fatalf("value survived delete: %q", got)
	}
}

func TestKVSurvivesReopen(t *testing.T) {
	db, dbPath := openTestDB(t)
	ctx := context.Background()

	if err := db.Put(ctx, "user", []byte("cached")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	db.Close()

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "user")
	if err != nil || string(got) != "cached" {
		t.Fatalf("after reopen Get = %q, %v", got, err)
	}
}

// With SetMaxOpenConns(1) a transaction that isn't finished would block every
// later query. Put must release its connection before returning.
func TestPutReleasesConnection(t *testing.T) {
	db, _ := openTestDB(t)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		for i := 0; i < 10; i++ {
			if err := db.Put(ctx, "k", []byte{byte(i)}); err != nil {
				done <- err
				return
			}
			if _, err := db.Get(ctx, "k"); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("kv ops failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out - possible deadlock detected")
	}
}
