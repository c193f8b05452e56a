// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - Routes: explicit or viewset route table (default: viewset)
  - Accounts: serve /users/ and /login/ and require tokens (default: true)
  - TokenSecret: Token signing secret (required when Accounts is set)
  - TokenTTL: Token lifetime (default: 24h)
  - AllowedOrigin: CORS origin (default: reflect the request)
  - LogLevel: debug, info, warn or error (default: info)

# CLI Flags and Environment Variables

	-p             PORT
	-d             DATABASE_URL
	-t             DATABASE_TYPE
	-routes        ROUTES
	-accounts      ACCOUNTS
	-token-secret  TOKEN_SECRET
	-token-ttl     TOKEN_TTL
	-origin        ALLOWED_ORIGIN
	-log-level     LOG_LEVEL

Environment lookup goes through viper. CLI flags take precedence over
environment variables, which take precedence over defaults. main loads a
.env file into the environment before ParseFlags runs.
*/
package cliparse
