package main

import "weaktrace/cmd"

func main() {
	cmd.Execute()
}
