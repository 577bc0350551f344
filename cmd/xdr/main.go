// Command xdr is a reverse proxy and simulation runtime for agents paying
// for HTTP resources with an L402-style token protocol.
package main

import (
	"fmt"
	"os"

	"xdr/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitGenericError)
	}
}
