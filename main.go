package main

import "github.com/kozaktomas/collage-pdf/cmd"

func main() {
	cmd.Execute()
}
