package swipe

import (
	"fmt"
	"os"
)

// Verbose gates Vprint/Vprintf/Vprintln the same way the teacher's misc.go
// gates its own verbose logging.
var Verbose = false

// Masker is the external masking collaborator referenced by spec §1: swipe
// itself never decides which residues are low-complexity, but makedb calls
// through this hook (when non-nil and -masking is set) so a caller can plug
// in their own masker -- e.g. seg or a wrapped third-party implementation --
// without swipe needing to depend on it. Left nil, -masking is a no-op.
var Masker func(residues []byte) []byte

func Vprint(s string) {
	if !Verbose {
		return
	}
	fmt.Fprint(os.Stderr, s)
}

func Vprintf(format string, v ...interface{}) {
	if !Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, format, v...)
}

func Vprintln(s string) {
	if !Verbose {
		return
	}
	fmt.Fprintln(os.Stderr, s)
}
