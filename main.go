package main

import "focuspad/internal/cli"

func main() {
	cli.Execute()
}
