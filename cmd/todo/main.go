package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/app"
)

func main() {
	if err := execute(context.Background(), app.Options{}, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", domain.Message(err))
		os.Exit(1)
	}
}
