//go:build !unix

package classify

import "os"

func (c *Classifier) isMountPoint(string, os.FileInfo) bool {
	return false
}
