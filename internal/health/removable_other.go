//go:build !linux

package health

func isRemovable(string) bool {
	return false
}
