// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

	if err := cliparse.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadDotEnv reads .env with godotenv without overriding variables that are
already set.

# CLI Flags and Environment Variables

	-p             PORT           Server port (default 3318)
	-data          BALLOTS_CSV    Ballot CSV path
	-d             DATABASE_URL   SQL ballot store
	-t             DATABASE_TYPE  sqlite (default) or postgres
	-users         USERS_FILE     Users file (default users.yaml)
	-session-salt  SESSION_SALT   Session token secret (required)
	-session-ttl   SESSION_TTL    Session lifetime (default 12h)
	-top           TOP_K          Default ranked table length (default 15)
	-log-level     LOG_LEVEL      debug, info, warn, error
	-log-encoding  LOG_ENCODING   json or console

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error when no ballot source is given, SESSION_SALT is
missing, the database type is unknown, or a number or duration does not
parse.
*/
package cliparse
