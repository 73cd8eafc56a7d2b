// Package repositories provides the persistence layer for the resolve cache.
//
// Each repository implements models.Repository[T] for a specific entity type,
// handling CRUD operations and sequence generation.
package repositories
