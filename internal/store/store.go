// Package store provides the named-record persistence layer: JSON records
// addressed by (collection, key), with interchangeable gorm, redis and
// plain-file drivers.
package store

import (
	"context"
	"errors"
)

// Collection names used by the API.
const (
	CollectionUsers  = "users"
	CollectionTokens = "tokens"
	CollectionChecks = "checks"
	CollectionAudit  = "audit"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// Store is the record CRUD contract consumed by the services. Create fails
// with ErrAlreadyExists when the key is taken; Read, Update and Delete fail
// with ErrNotFound when it is not. Anything else is an I/O failure.
type Store interface {
	Create(ctx context.Context, collection, key string, record any) error
	Read(ctx context.Context, collection, key string, out any) error
	Update(ctx context.Context, collection, key string, record any) error
	Delete(ctx context.Context, collection, key string) error
}
