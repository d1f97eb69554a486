package main

import "github.com/nova16/emu/cmd"

func main() {
	cmd.Execute()
}
