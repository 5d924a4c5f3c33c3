package main

import "github.com/codelens-dev/codelens/internal/cli"

func main() {
	cli.Execute()
}
