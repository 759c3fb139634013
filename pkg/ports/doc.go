/*
Package ports defines the driven ports (interfaces) for the shortcutter engine.

These interfaces decouple the engine from its external collaborators, allowing
it to run against various storage backends, input platforms and status front ends.

# Key Interfaces

  - MacroStore: Persists macro records and supplies the snapshot loaded at start.
  - Listener: Registers hotkeys with the OS and delivers trigger events.
  - Pointer: Reads, moves and clicks the shared pointer device.
  - Locator: Finds image assets on the live screen.
  - StatusIndicator: Receives the Stopped/Running status signal.
*/
package ports
