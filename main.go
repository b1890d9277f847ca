package main

import (
	"log"

	"github.com/examstack/examstack-api/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal(err)
	}
}
