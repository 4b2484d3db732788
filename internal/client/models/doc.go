// Package models defines the contact, calendar and appointment types in their
// two shapes: the application shape (camelCase JSON, derived fields, what the
// stores and the local cache hold) and the remote row shape (snake_case JSON,
// nullable columns, backend-owned id and timestamps).
package models
