// posbound computes how far left and right an agent can be after a number
// of ticks, given the ticks at which a freeze may hit it.
//
// Usage:
//
//	posbound bounds --agent Regular --trigger 100 --trigger 300 --ticks 949
//	posbound batch -f queries.yaml
//	posbound agents
//	posbound cache list --cache .posbound/cache.db
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	if err != nil {
		if a.sentry {
			sentry.CaptureException(err)
			sentry.Flush(2 * time.Second)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
