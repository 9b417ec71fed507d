package main

import "github.com/llmetrics/llmetrics/internal/cli"

func main() {
	cli.Execute()
}
