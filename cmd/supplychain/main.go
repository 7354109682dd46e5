package main

import "github.com/andrescamacho/supplychain-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
