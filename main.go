package main

import (
	"github.com/adminhub/adminhub/cmd"
)

func main() {
	cmd.Execute()
}
