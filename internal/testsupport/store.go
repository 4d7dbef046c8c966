package testsupport

import (
	"context"
	"testing"

	"discsub/internal/config"
	"discsub/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustRecord inserts a history entry for tests.
func MustRecord(t testing.TB, st *store.Store, entry store.Entry) {
	t.Helper()

	if err := st.Record(context.Background(), entry); err != nil {
		t.Fatalf("store.Record: %v", err)
	}
}
