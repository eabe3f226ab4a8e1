package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nerrad567/matrix-portal-core/internal/hass"
	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/config"
	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/database"
	"github.com/nerrad567/matrix-portal-core/migrations"
)

func TestEmbeddedMigrationsApply(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "state.db"),
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	n, err := db.Migrate(ctx, migrations.FS)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if n == 0 {
		t.Fatal("no embedded migrations were applied")
	}

	// The history store must work against the migrated schema.
	store := hass.NewSQLiteHistory(db.DB)
	if err := store.RecordState(ctx, "kitchen_power", hass.State{hass.KeyState: hass.StateOn}, hass.SourceLocal); err != nil {
		t.Fatalf("RecordState() error = %v", err)
	}
	state, err := store.LatestState(ctx, "kitchen_power")
	if err != nil {
		t.Fatalf("LatestState() error = %v", err)
	}
	if state[hass.KeyState] != hass.StateOn {
		t.Errorf("LatestState() = %v", state)
	}
}
