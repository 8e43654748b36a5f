package main

import "github.com/Skotchmaster/storefront/internal/cli"

func main() {
	cli.Execute()
}
