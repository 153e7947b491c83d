// chatlens - WhatsApp chat export analysis
//
// chatlens parses exported chat logs into message records and reports
// activity statistics, from the command line or over HTTP.
package main

import (
	"os"

	"github.com/ccollicutt/chatlens/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
