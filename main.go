package main

import "github.com/gridkit/olympic-data-apis/cmd"

func main() {
	cmd.Execute()
}
