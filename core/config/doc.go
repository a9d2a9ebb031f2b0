// Package config loads the application settings.
//
// Settings come from the environment, optionally seeded by a .env file, and
// fall back to the `default` struct tags of each section. Environment keys are
// the upper-cased section and key joined by an underscore:
//
//	WAREHOUSE_HOST=warehouse.internal
//	WAREHOUSE_SCHEMAS=sales,staging
//	SNAPSHOT_BACKEND=object
//	DRIFT_RENAME_THRESHOLD=0.6
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Snapshot.Dir)
package config
