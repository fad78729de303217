// Package repository declares the persistence ports used by the application services.
//
// Every method takes the request context: it carries the bound tenant and,
// inside Transactor.WithinTransaction, the open transaction. Lookups by id
// return an apperror NOT_FOUND when no row exists and CROSS_TENANT when the
// row belongs to another tenant. List queries only ever see the bound tenant.
package repository

import "context"

// Transactor runs a unit of work atomically
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
