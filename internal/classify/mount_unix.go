//go:build unix

package classify

import (
	"os"
	"syscall"
)

// isMountPoint compares the device of info with the device of its parent
// directory. Filesystems that carry no stat_t (in-memory ones) never report
// mount points.
func (c *Classifier) isMountPoint(parent string, info os.FileInfo) bool {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}

	parentInfo, err := c.fs.Stat(parent)
	if err != nil {
		return false
	}
	pst, ok := parentInfo.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}

	return st.Dev != pst.Dev
}
