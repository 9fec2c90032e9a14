// Package antisocial provides the AntiSocial API server.

// The interesting logic lives in the subpackages:

// - internal/feed: reaction aggregation and the negativity-ranked feed
// - internal/social: reaction and follow toggles, profiles
// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/models: data models and database schema
// - internal/auth: registration, login and JWT sessions
// - internal/database: database connection, migrations and indexes
// - internal/middleware: auth, request logging, rate limiting
// - internal/seed: development data seeding

// See the individual package documentation for detailed API reference.
package antisocial
