package main

import (
	"context"

	"phoenix-ical/cmd/phoenix-ical/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
