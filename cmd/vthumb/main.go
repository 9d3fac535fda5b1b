package main

import "github.com/xdream/vthumb/internal/cli"

func main() {
	cli.Main()
}
