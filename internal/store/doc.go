// Package store defines the persistence interfaces consumed by the core
// tutoring logic, along with the sentinel errors shared by all store
// implementations. Implementations live under internal/platform.
package store
