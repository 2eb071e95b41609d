// Package services provides domain services that work across aggregates.
//
// The package includes:
//   - GeospatialMatcher: radius filtering and distance ranking of partners and shops
//
// Matching never mutates orders. Assignment is decided by the order store.
package services
