package main

import "discogsapi/cmd"

func main() {
	cmd.Execute()
}
