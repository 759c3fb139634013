// Package sqlite implements ports.MacroStore on a single SQLite table, using
// the pure-Go modernc.org/sqlite driver.
package sqlite
