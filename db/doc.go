// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections and creates the schema.

# Connections

Open accepts a database type and a connection string:

	conn, err := db.Open(db.DialectPostgres, "postgres://...")
	conn, err := db.Open(db.DialectSQLite, "file:polls.db")

PostgreSQL uses github.com/lib/pq, SQLite uses modernc.org/sqlite.

# Schema Creation

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Ids are generated by the database (BIGSERIAL or AUTOINCREMENT).

# Relationships

	app_user 1──* poll     (created_by, nullable)
	poll     1──* choice
	choice   1──* vote
	app_user 1──* vote     (voted_by, nullable)

All foreign keys use ON DELETE CASCADE. vote has UNIQUE (poll_id, voted_by).
*/
package db
