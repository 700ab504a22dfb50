package main

import "texsense/internal/cli"

func main() {
	cli.Execute()
}
