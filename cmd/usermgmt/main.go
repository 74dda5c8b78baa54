package main

import "github.com/goliatone/go-usermgmt/internal/cli"

func main() {
	cli.Execute()
}
