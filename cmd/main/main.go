package main

import "github.com/Another0Noob/levelsync/cmd"

func main() {
	cmd.Execute()
}
