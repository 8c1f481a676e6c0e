package main

import "purgeall/internal/cli"

func main() {
	cli.Execute()
}
