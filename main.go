package main

import "github.com/notargets/gotri/cmd"

func main() {
	cmd.Execute()
}
