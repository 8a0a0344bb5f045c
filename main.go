package main

import "github.com/adarshkumar790/multisender/cmd"

func main() {
	cmd.Execute()
}
