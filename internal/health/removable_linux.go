//go:build linux

package health

import (
	"os"
	"path/filepath"
	"strings"
)

const sysClassBlock = "/sys/class/block"

// isRemovable reads the kernel's removable flag for device, walking from a
// partition up to its parent disk.
func isRemovable(device string) bool {
	if !strings.HasPrefix(device, "/dev/") {
		return false
	}

	dir, err := filepath.EvalSymlinks(filepath.Join(sysClassBlock, filepath.Base(device)))
	if err != nil {
		return false
	}

	for _, d := range []string{dir, filepath.Dir(dir)} {
		data, err := os.ReadFile(filepath.Join(d, "removable"))
		if err != nil {
			continue
		}
		return strings.TrimSpace(string(data)) == "1"
	}
	return false
}
