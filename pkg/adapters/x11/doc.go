// Package x11 drives the X Window System: global hotkey grabs, pointer
// warping, synthetic clicks through the XTEST extension and root window
// captures for image search.
//
// Only Linux builds talk to an X server; elsewhere Open returns ErrUnsupported.
package x11
