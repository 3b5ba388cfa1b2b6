package main

import "github.com/LeJamon/goPyth/internal/cli"

func main() {
	cli.Execute()
}
