package main

import "github.com/sadopc/habitr/internal/cli"

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
