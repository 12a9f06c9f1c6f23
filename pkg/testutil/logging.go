package testutil

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Tests run with everything at trace level so failures carry the full
// execution trail, but the output only surfaces under -test.v.
func init() {
	logrus.SetLevel(logrus.TraceLevel)

	for _, arg := range os.Args {
		if strings.HasPrefix(arg, "-test.v") && !strings.HasSuffix(arg, "=false") {
			return
		}
	}

	logrus.StandardLogger().Out = io.Discard
}
