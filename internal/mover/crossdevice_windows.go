//go:build windows

package mover

// isCrossDevice is unused on Windows: os.Rename across volumes fails with
// a distinct, less uniformly-represented error, and the collision-rename
// scheme this mover relies on already keeps destinations on the move_to
// volume, so cross-volume moves are not expected in practice.
func isCrossDevice(err error) bool {
	return false
}
