package main

import (
	"context"
	"os"

	"github.com/teranos/typetransform/cmd/type-transform/commands"
)

func main() {
	os.Exit(commands.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
