package main

import (
	"context"

	"github.com/faizmokh/pacli/internal/cli"
)

func main() {
	ctx := context.Background()
	cli.Main(ctx)
}
