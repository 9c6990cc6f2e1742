// Package domain contains the core entities of the task manager (users,
// tasks, sessions represented only by their identifiers, and notification
// records) along with their validation rules. It has no dependencies on
// storage, transport, or configuration.
package domain
