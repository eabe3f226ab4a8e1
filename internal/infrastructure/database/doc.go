// Package database opens the local SQLite state database and applies its
// embedded schema migrations.
//
// The only persistent data today is entity state history, used to restore
// power and label colour after a restart.
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if _, err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
package database
