package main

import "github.com/agentic-research/rbxmx2repo/cmd"

func main() {
	cmd.Execute()
}
