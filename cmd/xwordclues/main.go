package main

import (
	"xwordclues/cmd/xwordclues/commands"
	"xwordclues/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
