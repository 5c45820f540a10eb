package main

import "github.com/andrescamacho/player-soap-service/internal/adapters/cli"

func main() {
	cli.Execute()
}
