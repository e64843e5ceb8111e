// Package paths knows where inputs and outputs live, and how to write outputs
// without leaving half-written files behind.
package paths

import (
	"path/filepath"
)

// CropDirName is the directory, inside an input directory, that per-frame
// crops are written to. Frame listing skips directories, so it never gets
// picked up as input.
const CropDirName = "link_crops"

// InputDir returns the directory the frames named dir live in.
func InputDir(root, dir string) string {
	return filepath.Join(root, dir)
}

// CropDir returns the directory crops of frames in dir are written to.
func CropDir(root, dir string) string {
	return filepath.Join(root, dir, CropDirName)
}

// LoopPath returns the path of the loop artifact built from frames in dir.
func LoopPath(root, dir string) string {
	return filepath.Join(root, "out", filepath.Base(dir)+".gif")
}

// Find returns the first of the candidate roots which has a subdirectory
// named dir, or an empty string if none does.
func Find(dir string, roots ...string) string {
	for _, root := range roots {
		if isDir(InputDir(root, dir)) {
			return root
		}
	}
	return ""
}
