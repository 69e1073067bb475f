// Package domain contains the core business entities and domain logic of
// the shared-expense ledger: users, groups, expenses, expense shares and
// settlements. It represents the heart of the system, independent of any
// specific infrastructure or delivery mechanism.
//
// Entities are identified by UUID and refer to each other by id, never by
// mutable object pointers on both sides of a relationship. The store and
// service layers keep related records consistent.
//
// Monetary amounts are decimals with at most two fractional digits (the
// minimum currency unit). Arithmetic that would produce a sub-cent result
// fails with ErrPrecision instead of rounding silently.
package domain
