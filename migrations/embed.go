// Package migrations embeds the schema history of each service.
package migrations

import "embed"

//go:embed reservation/*.sql
var Reservation embed.FS

//go:embed user/*.sql
var User embed.FS
