package main

import "github.com/theirongolddev/savegames/cmd"

func main() {
	cmd.Execute()
}
