package main

import "github.com/mcoot/wordgrid-go/internal/cli"

func main() {
	cli.Execute()
}
