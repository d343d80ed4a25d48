package main

import (
	"os"

	"github.com/poppolopoppo/bin2cpp/app"
)

/***************************************
 * Launch Command (program entry point)
 ***************************************/

func main() {
	os.Exit(app.LaunchCommand(os.Args[1:]))
}
