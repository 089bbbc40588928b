package main

import "conda-project/internal/cli"

func main() {
	cli.Execute()
}
