package main

import "github.com/invoicebuild/invoicebuild/internal/cli"

func main() {
	cli.Execute()
}
