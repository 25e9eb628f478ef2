// Package main is the entry point for the remix CLI.
package main

import "github.com/mouse-blink/remix/cmd"

func main() {
	cmd.Execute()
}
