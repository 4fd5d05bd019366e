package main

import "github.com/andrescamacho/farmsim-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
