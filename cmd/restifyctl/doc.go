// Package main provides restifyctl, the CLI for the restify example server.
//
// restify generates REST CRUD endpoints from data-model definitions. Models
// opt in by implementing the restify.Restifiable interface; each one gets
// create, read-one, read-all, update and delete routes with a per-operation
// authorize, validate and query pipeline.
//
// # Architecture
//
//   - pkg/restify: routing-block types (auth, validation, query variants)
//   - pkg/registry: routable-model registry and path derivation
//   - pkg/server: HTTP server and routing
//   - pkg/server/routes: route generation and the request pipeline
//   - pkg/server/middleware: default header-token authorization
//   - pkg/server/openapi: API specification emission
//   - pkg/credentials: secret hashing and identity sanitization
//   - pkg/token: signed-token issue and verify
//   - pkg/store: entity persistence over GORM
//   - pkg/model: example application models
//   - pkg/config: configuration management
//   - pkg/db: database connection utilities
//
// # Quick Start
//
//	# Point at a database and pick a token signing secret
//	export DATABASE_URL=postgres://localhost/restify
//	export RESTIFY_AUTH_SECRET=$(openssl rand -hex 32)
//
//	# Create the schema and some demo records
//	restifyctl db migrate
//	restifyctl db seed
//
//	# Start the server
//	restifyctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string, or an sqlite file path
//   - RESTIFY_AUTH_SECRET: token signing secret
//   - RESTIFY_AUTH_MODE: none, token or custom (default: token)
//   - RESTIFY_TOKEN_TTL_SECONDS: token lifetime (default: no expiry)
//   - RESTIFY_AUTH_HEADER: token header name (default: Authorization)
//   - RESTIFY_LOGIN_PATH / RESTIFY_LOGIN_METHOD: login route placement
//   - RESTIFY_IDENTITY_FIELD / RESTIFY_SECRET_FIELD: login payload keys
//   - RESTIFY_DOCS_OUTPUT_FILE / RESTIFY_DOCS_SERVE_PATH: API spec emission
//   - RESTIFY_LOG_LEVEL: set to debug for SQL logging
//   - PORT: Server port (default: 8000)
package main
