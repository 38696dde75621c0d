package main

import "nathanbeddoewebdev/hcloud-mcp/cmd"

func main() {
	cmd.Execute()
}
