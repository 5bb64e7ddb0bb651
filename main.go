package main

import "github.com/KaramelBytes/dqaudit/cmd"

func main() {
	cmd.Execute()
}
