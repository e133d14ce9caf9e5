package testsupport

import (
	"testing"

	"rolodex/internal/config"
	"rolodex/internal/ledger"
)

// MustOpenLedger opens a ledger store against the test config's data
// directory and closes it when the test finishes.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("open ledger store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close ledger store: %v", err)
		}
	})
	return store
}
