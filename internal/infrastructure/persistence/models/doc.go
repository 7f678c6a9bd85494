// Package models contains GORM persistence models. Domain entities stay free of
// ORM tags; each model converts to and from its entity with ToDomain/FromDomain.
//
// Every tenant-owned table carries a unique index on (tenant_id, external id)
// so concurrent inserts of the same platform entity collide instead of
// duplicating. Customers without an external id are unique per
// (tenant_id, email) through a partial index.
package models
