// Package main is the taskboard entrypoint: the terminal client and, via
// "taskboard serve", the API server.
package main

import "taskboard/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
