package main

import (
	"os"

	"horse.fit/lingomix/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
