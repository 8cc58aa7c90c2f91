package main

import "github.com/fakeyudi/cpwind/cmd"

func main() {
	cmd.Execute()
}
