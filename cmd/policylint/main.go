package main

import "github.com/policylint/policylint/internal/cli"

func main() {
	cli.Execute()
}
