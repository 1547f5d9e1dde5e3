package main

import "github.com/MeKo-Tech/ioprof/cmd/ioprof/cmd"

func main() {
	cmd.Execute()
}
