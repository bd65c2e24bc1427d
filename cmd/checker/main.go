package main

import "github.com/alimomennasab/hate-speech-agent/internal/cli"

func main() {
	cli.Execute()
}
