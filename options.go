package texmath

import (
	"log"
	"os"
)

type texmathOptions struct {
	debug bool
}

var (
	options = texmathOptions{}
	logger  = log.New(os.Stdout, "[texmath] ", log.LstdFlags)
)

// SetDebug turns on diagnostic logging from the mathml renderer and the
// texmathdemo CLI. The parser core itself never logs.
func SetDebug(b bool) {
	options.debug = b
}

// Logf logs a debug line tagged with sender, when debug logging is enabled.
func Logf(sender string, format string, items ...interface{}) {
	if !options.debug {
		return
	}
	logger.Printf("[%s] "+format, append([]interface{}{sender}, items...)...)
}
