package main

import "github.com/askiada/go-preprocess/internal/cli"

func main() {
	cli.Execute()
}
