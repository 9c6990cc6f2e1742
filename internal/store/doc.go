// Package store defines the persistence interfaces of the task manager and
// the sentinel errors their implementations return. Concrete backends live
// under internal/platform.
package store
