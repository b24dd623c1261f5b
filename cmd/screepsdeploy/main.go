package main

import "github.com/aalvaropc/screepsdeploy/internal/cli"

func main() {
	cli.Execute()
}
