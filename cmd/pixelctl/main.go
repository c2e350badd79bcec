package main

import "github.com/mcoot/pixelcanvas/internal/cli"

func main() {
	cli.Execute()
}
