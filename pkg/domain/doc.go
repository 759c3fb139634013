/*
Package domain contains the core domain models of the shortcutter engine.

It defines the entities the engine reads and produces: Macros bound to hotkey
Combos, the Steps they replay, the ephemeral execution Instance of a triggered
macro and the process-wide RunnerStatus. This package is kept pure and free of
external dependencies like I/O or persistence.

# Key Entities

  - Combo: A canonical hotkey string (modifiers + one terminal key).
  - Macro: A named, combo-triggered ordered sequence of Steps.
  - Step: One atomic action (delay, image-guided move, origin return, duplicate check, click).
  - Instance: One in-flight run of a macro, owning the captured origin and its ExecState.
  - RunResult: The terminal report of an Instance, used for logging and metrics.
*/
package domain
