// Package statsview serves live Go runtime charts for long simulation runs.
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// DefaultAddress is where the viewer listens unless told otherwise.
const DefaultAddress = "localhost:12600"

const url = "/debug/statsview"

// Launch starts the stats server on addr in a new goroutine and reports its
// URL to output. The server lives until the process exits.
func Launch(output io.Writer, addr string) {
	if addr == "" {
		addr = DefaultAddress
	}

	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()

	_, _ = fmt.Fprintf(output, "stats server available at http://%s%s\n", addr, url)
}
