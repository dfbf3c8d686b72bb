package main

import (
	"github.com/PowerDNS/snapshots/cmd/snapshots/commands"
)

// version is overridden during the build with the go linker
var version = "dev"

func main() {
	commands.SetVersion(version)
	commands.Execute()
}
