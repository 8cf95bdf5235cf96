// The main package for the steam-comments executable.
package main

import (
	"github.com/JakeFAU/steam-profile-comments/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
