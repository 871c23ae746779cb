package main

import (
	"github.com/MeKo-Tech/medext/cmd/medext/cmd"
)

func main() {
	cmd.Execute()
}
