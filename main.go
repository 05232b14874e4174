package main

import (
	"cvm8/cmd"

	"github.com/faiface/pixel/pixelgl"
)

func main() {
	pixelgl.Run(runCvm8)
}

func runCvm8() {
	cmd.Execute()
}
