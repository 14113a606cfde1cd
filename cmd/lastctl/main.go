package main

import "github.com/lasttime-service/cmd/lastctl/cmd"

func main() {
	cmd.Execute()
}
