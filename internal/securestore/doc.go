// Package securestore is the generic secure-storage facade: an encrypted
// flat key-value store (KVStore, bbolt-backed) and an encrypted indexed
// collection store (CollectionStore, SQLite-backed).
//
// Everything written through the facade is protected twice over. Values are
// sealed into authenticated envelopes by cryptox, and the names of stores,
// keys and collections are replaced with deterministic pseudonyms from
// devicekey, so the physical schema reveals no semantic field names.
//
// Callers must not assume atomicity across multiple facade calls: each
// operation is its own transaction, scoped to one bucket or one collection
// table. Concurrent writers to the same record race with last-write-wins
// semantics at the storage engine.
package securestore
