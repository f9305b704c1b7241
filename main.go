package main

import "rpccheck/internal/cli"

func main() {
	cli.Execute()
}
