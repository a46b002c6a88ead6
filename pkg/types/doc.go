// Package types defines the Mission, Project, and Task entities, the
// repository and account-context interfaces, paging types, DTOs, and the
// standard error values for the nextlevel storage layer.
//
// Entities are immutable value snapshots. Constructors validate and normalize
// user input; identity is always assigned by the storage endpoint.
package types
