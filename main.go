package main

import "github.com/sw33tLie/autoneg/cmd"

func main() {
	cmd.Execute()
}
