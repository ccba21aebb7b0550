// ghdash fetches a GitHub user's public repositories and recent activity
// and reports them as a trailing-12-month dashboard document in JSON.
//
// Usage:
//
//	ghdash report --user octocat
//	GITHUB_TOKEN=... ghdash report --user octocat --verbose
package main

import (
	"github.com/mizuho-dev/ghdash/cmd"
)

// Version is the current version of ghdash.
// It can be overridden at build time using:
//
//	go build -ldflags="-X main.Version=v1.0.0"
var Version = "dev"

func main() {
	cmd.Version = Version
	cmd.Execute()
}
