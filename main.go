// The main package for the leadsync executable.
package main

import (
	"github.com/firmmetrics/leadsync/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
