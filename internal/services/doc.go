// Package services implements the business logic of the LAS Analyzer between the HTTP
// handlers and the storage, archive and event-feed collaborators.
//
// # Services
//
//	WellService       upload ingestion, well listing, depth queries, export tables, deletion
//	InterpretService  robust statistics and interpretation text over a depth window
//	HealthService     liveness, readiness (database ping) and version information
//
// Services receive their collaborators and an *slog.Logger at construction, take a
// context.Context on every blocking call and return the sentinel errors in errors.go,
// wrapped with fmt.Errorf, for the transport layer to map.
package services
