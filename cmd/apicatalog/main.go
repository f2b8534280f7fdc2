// Command apicatalog searches an API operation catalog, plans resource
// creation and serves the catalog to MCP clients.
package main

import (
	"fmt"
	"os"

	"github.com/jonwraymond/apicatalog/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
