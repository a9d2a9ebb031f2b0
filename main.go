package main

import "schema-drift/cmd"

func main() {
	cmd.Execute()
}
