// Package vision finds image assets on a captured screen.
//
// Matching is a grayscale template search scored as 1 - meanAbsDiff/255, so a
// pixel-perfect hit scores 1. It is exact rather than fast: every candidate
// position is visited, and a position is dropped as soon as its running
// difference can no longer reach the requested confidence.
package vision
