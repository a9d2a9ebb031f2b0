// Package database opens the warehouse connection and reads its catalog.
//
// Connect wraps GORM with the mysql, postgres or sqlite dialector chosen by
// Config.Driver. Inspector implements the metadata source of a reconcile
// run: it reads INFORMATION_SCHEMA.COLUMNS on mysql and postgres, and
// PRAGMA table_info on sqlite.
//
// # Usage
//
//	db, err := database.Connect(cfg.Warehouse)
//	if err != nil {
//	    return err
//	}
//	rows, err := database.NewInspector(db).FetchColumns(ctx, cfg.Warehouse.Name, "sales")
package database
