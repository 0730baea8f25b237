package main

import "github.com/minish/minish/cmd"

func main() {
	cmd.Execute()
}
