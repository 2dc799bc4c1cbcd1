package main

import "github.com/relloyd/whload/cmd"

func main() {
	cmd.Execute()
}
