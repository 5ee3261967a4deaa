package main

import "fleetbook/internal/cli"

func main() {
	cli.Execute()
}
