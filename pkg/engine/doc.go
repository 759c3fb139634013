/*
Package engine runs macros against the pointer and the screen.

An Executor turns one trigger into one Instance and drives it through
Idle -> Running -> {Completed, Aborted}:

  - The pointer position is captured as the origin before the first step.
  - Steps run strictly in order. Image lookups and failed pointer calls are
    soft failures: they are logged and the next step runs.
  - CheckDuplicates aborts the instance when the asset appears more than once.
  - The pointer returns to the origin on both terminal states. A cancelled
    context ends the instance Aborted and skips the restore.

Every step that reads or moves the pointer holds the Executor's pointer lock for
its whole duration, so concurrent instances never interleave pointer moves.

Slot is the per-combo gate the dispatcher uses to drop triggers that arrive
while a previous run of the same combo is still in flight.
*/
package engine
