package main

import "github.com/jfmyers9/spotlight/cmd"

func main() {
	cmd.Execute()
}
