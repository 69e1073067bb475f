// Package store provides abstractions for persisting the ledger's record
// graph. It defines one store interface per entity, a shared error
// taxonomy, and transaction plumbing that lets the service layer compose
// multi-entity mutations atomically.
//
// Relationships are stored exactly once (a foreign-key column or a join
// row), so the forward and back reference of any relationship are two
// reads of the same fact and cannot disagree. Callers mutate
// relationships only through the paired operations the service layer
// exposes; the store interfaces deliberately offer no way to update one
// side of a link.
package store
