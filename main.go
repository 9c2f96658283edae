package main

import "github.com/user/audio-trim-cli/cmd"

func main() {
	cmd.Execute()
}
