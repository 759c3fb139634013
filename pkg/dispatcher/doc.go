// Package dispatcher owns the live combo table and the hotkey listener.
//
// The table is built once from a macro snapshot. Each trigger is handed to its
// own goroutine, so a long delay in one macro never holds up detection of
// other combos. Re-entrant triggers of a combo are dropped by the combo's
// engine.Slot while its previous run is in flight.
package dispatcher
