// Package schema converts persisted macro records to and from domain.Macro.
//
// A record is the loosely typed map a store reads from disk or Redis:
//
//	{
//	    "name":  "open-inbox",
//	    "combo": "ctrl+alt+i",
//	    "steps": [
//	        {"action": "move_to_image", "target": "inbox.png", "confidence": 0.9, "timeout": 5},
//	        {"action": "left_click"},
//	        {"action": "delay", "duration": 0.5},
//	        {"action": "move_to_origin"}
//	    ]
//	}
//
// Durations and timeouts are expressed in seconds. Decoding is weakly typed,
// so "0.5" and 0.5 are both accepted. Missing confidence and timeout fields
// take the engine defaults.
//
// Every problem found in a record is reported, wrapped in an AggregateError,
// so an editor can surface them all at once.
package schema
