// Package main is the entry point for the cvrpsolve CLI.
package main

import "github.com/cvrpsolve/engine/cmd/cvrpsolve/commands"

func main() {
	commands.Execute()
}
