package main

import "github.com/datastax/data-views/cmd"

func main() {
	cmd.Execute()
}
