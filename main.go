package main

import (
	"fmt"
	"os"

	"github.com/suadelabs/rattr/cmd/rattr"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
