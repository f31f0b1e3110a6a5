package db

import (
	_ "embed"
)

//go:embed schema.sql
var Schema string

//go:embed postgres_schema.sql
var PostgresSchema string
