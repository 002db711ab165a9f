package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

// runStoreSuite exercises the Store contract shared by every backend.
// Base times are whole seconds because the SQLite schema stores unix
// seconds.
func runStoreSuite(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0)

	t.Run("PutGetRoundtrip", func(t *testing.T) {
		sess := &Session{
			ID:        "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			UserID:    "user-roundtrip",
			Role:      "clinician",
			CreatedAt: base,
			TTL:       time.Hour,
		}
		if err := store.Put(ctx, sess); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, err := store.GetByID(ctx, sess.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.ID != sess.ID || got.UserID != sess.UserID || got.Role != sess.Role {
			t.Fatalf("record mismatch: got %+v", got)
		}
		if !got.CreatedAt.Equal(sess.CreatedAt) || got.TTL != sess.TTL {
			t.Fatalf("time fields mismatch: got %+v", got)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		if _, err := store.GetByID(ctx, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("GetByID on absent id = %v, want ErrNotFound", err)
		}
		if _, err := store.GetByUser(ctx, "user-without-session"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("GetByUser on absent user = %v, want ErrNotFound", err)
		}
	})

	t.Run("GetByUser", func(t *testing.T) {
		sess := &Session{
			ID:        "cccccccccccccccccccccccccccccccc",
			UserID:    "user-lookup",
			Role:      "patient",
			CreatedAt: base,
			TTL:       time.Hour,
		}
		if err := store.Put(ctx, sess); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, err := store.GetByUser(ctx, sess.UserID)
		if err != nil {
			t.Fatalf("GetByUser failed: %v", err)
		}
		if got.ID != sess.ID {
			t.Fatalf("GetByUser returned session %s, want %s", got.ID, sess.ID)
		}
	})

	t.Run("SupersedeOnSameUser", func(t *testing.T) {
		first := &Session{
			ID:        "dddddddddddddddddddddddddddddddd",
			UserID:    "user-supersede",
			Role:      "patient",
			CreatedAt: base,
			TTL:       time.Hour,
		}
		second := &Session{
			ID:        "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee",
			UserID:    "user-supersede",
			Role:      "patient",
			CreatedAt: base.Add(time.Minute),
			TTL:       time.Hour,
		}

		if err := store.Put(ctx, first); err != nil {
			t.Fatalf("Put first failed: %v", err)
		}
		if err := store.Put(ctx, second); err != nil {
			t.Fatalf("Put second failed: %v", err)
		}

		got, err := store.GetByUser(ctx, "user-supersede")
		if err != nil {
			t.Fatalf("GetByUser after supersede failed: %v", err)
		}
		if got.ID != second.ID {
			t.Fatalf("user index points at %s, want replacement %s", got.ID, second.ID)
		}

		// Last put wins outright: the replaced token must stop resolving,
		// not linger until a sweep or backstop TTL catches it.
		if _, err := store.GetByID(ctx, first.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("superseded session %s still readable: %v", first.ID, err)
		}
		if _, err := store.GetByID(ctx, second.ID); err != nil {
			t.Fatalf("replacement session unreadable: %v", err)
		}
	})

	t.Run("DeleteIdempotent", func(t *testing.T) {
		sess := &Session{
			ID:        "ffffffffffffffffffffffffffffffff",
			UserID:    "user-delete",
			Role:      "caretaker",
			CreatedAt: base,
			TTL:       time.Hour,
		}
		if err := store.Put(ctx, sess); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		if err := store.Delete(ctx, sess.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := store.GetByID(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("GetByID after delete = %v, want ErrNotFound", err)
		}

		// A second delete of the same id must succeed quietly.
		if err := store.Delete(ctx, sess.ID); err != nil {
			t.Fatalf("repeat Delete failed: %v", err)
		}
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		expired := []*Session{
			{ID: "11111111111111111111111111111111", UserID: "sweep-a", Role: "patient", CreatedAt: base.Add(-2 * time.Hour), TTL: time.Hour},
			{ID: "22222222222222222222222222222222", UserID: "sweep-b", Role: "patient", CreatedAt: base.Add(-time.Hour), TTL: time.Hour},
		}
		live := &Session{
			ID: "33333333333333333333333333333333", UserID: "sweep-c", Role: "patient",
			CreatedAt: base.Add(-time.Minute), TTL: time.Hour,
		}

		for _, sess := range append(expired, live) {
			if err := store.Put(ctx, sess); err != nil {
				t.Fatalf("Put %s failed: %v", sess.ID, err)
			}
		}

		deleted, err := store.DeleteExpired(ctx, base)
		if err != nil {
			t.Fatalf("DeleteExpired failed: %v", err)
		}
		if deleted != int64(len(expired)) {
			t.Fatalf("DeleteExpired removed %d records, want %d", deleted, len(expired))
		}

		for _, sess := range expired {
			if _, err := store.GetByID(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("expired session %s still readable: %v", sess.ID, err)
			}
		}
		if _, err := store.GetByID(ctx, live.ID); err != nil {
			t.Errorf("live session removed by sweep: %v", err)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := store.Ping(ctx); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})
}
