package main

import "portfolio-chat/internal/commands"

func main() {
	commands.Execute()
}
