package main

import (
	"modernize-client/cmd"
)

func main() {
	cmd.Execute()
}
