package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/knowledgehub/internal/admincli"
)

func main() {

	ctx := context.Background()
	app := admincli.NewApp(os.Stdin, os.Stdout)

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}
