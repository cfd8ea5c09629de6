package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/zurustar/star-glow/pkg/app"
)

//go:embed stories
var embeddedStories embed.FS

func main() {
	application := app.New(embeddedStories)
	if err := application.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
