package main

import (
	"fmt"
	"os"
)

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorColor.Sprint("ERROR: "), err.Error())
		os.Exit(1)
	}
}
