// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

/*
Package main is the entry point for the FluMap server.

FluMap serves avian influenza case datasets stored as CSV files to a map and
chart dashboard. Reads are public. Uploading and deleting datasets requires an
administrator login.

# Application Architecture

The server runs under Suture v4 process supervision:

	RootSupervisor ("flumap")
	├── DataSupervisor ("data-layer")
	│   ├── Dataset watcher (WATCH_DATASETS=true, local data dir only)
	│   └── Upload janitor
	└── APISupervisor ("api-layer")
	    ├── HTTP Server
	    └── Lockout janitor

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Dataset store: afs-backed CSV storage under DATA_DIR
 4. Authentication: users file, bcrypt, JWT sessions, account lockout
 5. Authorization: Casbin RBAC policy
 6. Supervisor Tree: Suture v4 process supervision
 7. HTTP Server: Chi router with middleware stack

# Configuration

Common environment variables:

	PORT / HTTP_PORT       listen port (default 5001)
	DATA_DIR               dataset directory or afs URL (default data)
	DEFAULT_DATASET        dataset served when none is named
	AUTH_MODE              jwt or none (default jwt)
	JWT_SECRET             HMAC secret, 32+ characters in jwt mode
	USERS_FILE             CSV of username,password[,role]
	CORS_ORIGINS           comma-separated allowed origins
	LOG_LEVEL / LOG_FORMAT zerolog level and json|console

A config.yaml in the working directory, or the file named by CONFIG_PATH, is
loaded before the environment.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for up to ten seconds before the process exits.
*/
package main
