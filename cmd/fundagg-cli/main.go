package main

import (
	"fundagg-backend/cmd/fundagg-cli/commands"
	"fundagg-backend/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
