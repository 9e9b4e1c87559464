package main

import "github.com/oshokin/desk-clock/cmd/desk-clock/cmd"

func main() {
	cmd.Execute()
}
