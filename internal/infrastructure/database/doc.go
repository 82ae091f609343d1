// Package database provides SQLite connectivity for Heima Core.
//
// The database holds the audit trail of commands and scene actuations and
// the decision history written after each evaluation cycle. Engine state
// itself is not persisted here; the canonical store is rebuilt from the
// space configuration on every reload.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Migrate(ctx, migrations.FS, "."); err != nil {
//	    return err
//	}
package database
