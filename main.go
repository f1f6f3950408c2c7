package main

import "github.com/gerunddev/jjgraph/commands"

func main() {
	commands.Execute()
}
