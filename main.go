package main

import "github.com/Masood0319/Startups-platform/cli"

func main() {
	cli.Execute()
}
