// Package file provides a filesystem-backed macro store.
package file
