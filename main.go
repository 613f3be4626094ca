package main

import "github.com/sw965/mnistm/cmd"

func main() {
	cmd.Execute()
}
