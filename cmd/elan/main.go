package main

import "elan/internal/cli"

func main() {
	cli.Execute()
}
