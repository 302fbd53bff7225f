package main

import "github.com/sadopc/spectalocks/internal/cli"

func main() {
	cli.Execute()
}
