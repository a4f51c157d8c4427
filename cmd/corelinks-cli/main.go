package main

import "corelinks/cmd/corelinks-cli/cmd"

func main() {
	cmd.Execute()
}
