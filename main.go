package main

import (
	"github.com/sceneweave/sceneweave/cmd"
)

func main() {
	cmd.Execute()
}
