// Package mocks provides in-memory implementations of the store
// interfaces for service-layer tests. Each mock keeps records in maps
// and honors the store error contracts; individual methods can be
// overridden through function fields when a test needs custom behavior.
package mocks
