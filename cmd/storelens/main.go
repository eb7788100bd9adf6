// Package main is the storelens executable.
package main

import (
	"github.com/JakeFAU/storefront-insights/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
