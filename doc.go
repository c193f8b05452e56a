// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the polls API server.

The API serves polls, their choices and votes, and optionally user
registration and token login.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=polls.db TOKEN_SECRET=... go run .

Or with flags:

	go run . -p 3318 -d "postgres://..." -t postgres -routes explicit

A .env file in the working directory is loaded first.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - TOKEN_SECRET (-token-secret): token signing secret, when accounts are on

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ROUTES (-routes): explicit or viewset (default: viewset)
  - ACCOUNTS (-accounts): user endpoints and token checks (default: true)
  - TOKEN_TTL (-token-ttl): token lifetime (default: 24h)
  - ALLOWED_ORIGIN (-origin): CORS origin
  - LOG_LEVEL (-log-level): debug, info, warn, error

# Architecture

  - route: ordered route table with typed path parameters
  - router: the route table of each deployment variant
  - handlers: HTTP request handlers (polls, choices, votes, users)
  - store: persistence port and its SQL implementation
  - auth: tokens, passwords and the bearer middleware
  - middleware: CORS, logging, metrics, JSON helpers, validation
  - metrics: Prometheus collectors
  - models: Request/response types
  - db: connections and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
