package main

import "github.com/alexivanou/geocommunity/cmd/geoctl/commands"

func main() {
	commands.Execute()
}
