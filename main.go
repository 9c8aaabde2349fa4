package main

import "github.com/Digital-Shane/trailer-tidy/internal/cmd"

func main() {
	cmd.Execute()
}
