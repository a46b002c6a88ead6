// Command nextlevel manages missions, projects, and tasks stored in a
// libSQL database.
package main

import "github.com/mesh-intelligence/nextlevel/internal/cli"

func main() {
	cli.Execute()
}
