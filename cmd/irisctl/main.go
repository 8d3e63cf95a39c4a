package main

import (
	"github.com/irisgate/irisgate/internal/cli"
)

func main() {
	cli.Execute()
}
