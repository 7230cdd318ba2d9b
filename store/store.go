// Package store provides restddb.Store implementations.
// The Store interface is defined in the parent restddb package
// (../store_interface.go) to avoid import cycles between the client
// and store packages.
//
// This package contains concrete implementations:
//   - DynamoDBStore: Production AWS DynamoDB backend
//   - BadgerStore: Embedded BadgerDB backend for local development
//   - MemoryStore: In-memory backend for testing
//
// The local backends declare their tables up front through TableDefinition;
// none of them provisions tables.
package store
