// Command hrzones reports heart-rate training zones for recent activities.
package main

import (
	"os"

	"github.com/huangsam/hrzones/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
