// Package migrations embeds the SQL migrations for each supported driver.
package migrations

import "embed"

// FS holds one directory of NNN_name.up.sql files per driver.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
