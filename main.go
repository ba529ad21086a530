package main

import (
	"github.com/fiodist/disttool/cmd"
)

func main() {
	cmd.Execute()
}
