// Package db embeds the SQL files the server applies at startup.
package db

import _ "embed"

// Schema holds the idempotent DDL for every storefront table.
//
//go:embed migrations/001_schema.sql
var Schema string
