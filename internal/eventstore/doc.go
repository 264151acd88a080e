// Package eventstore provides the append-only log of kinetic model events.
//
// An event is a whole KineticModel. Positions are zero-based and assigned in
// append order; the log never deduplicates, compacts or deletes. Three
// backends share the Store interface:
//
//   - ListStore: an in-memory slice, for tests and throwaway processes
//   - SQLiteStore: one row per event in a WAL-mode SQLite database
//   - BadgerStore: one key per event, big-endian positions, in a Badger LSM
//
// # Guarantees
//
//   - Appends are serialized; "next position, write event" is atomic.
//   - Readers see a consistent prefix of the log, never a partial event.
//   - A position outside [0, Len) reports found == false, not an error.
//   - AllKineticModels agrees with GetKineticModel at every position.
package eventstore
