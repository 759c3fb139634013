// Package redis provides a Redis-backed macro store and the instance lock
// that keeps two runners from grabbing the same hotkeys.
package redis
