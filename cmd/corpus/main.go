// Command corpus is the document retrieval pipeline CLI.
package main

import (
	"os"

	"github.com/quarry-labs/corpus/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
