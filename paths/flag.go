package paths

import (
	"flag"
)

// SetupRootFlag registers a string flag on fs for the image root. It
// defaults to the first of roots which contains dir, or to the first root if
// none does.
func SetupRootFlag(fs *flag.FlagSet, flagName, dir string, flagPtr *string, roots ...string) {
	def := Find(dir, roots...)
	if def == "" && len(roots) > 0 {
		def = roots[0]
	}
	fs.StringVar(flagPtr, flagName, def, "Directory containing the image directories")
}
