package main

import (
	cc "github.com/ivanpirog/coloredcobra"

	"github.com/mplenert/ledger/ledger/cmd"
)

func main() {
	cc.Init(&cc.Config{
		RootCmd:  cmd.RootCmd,
		Headings: cc.HiCyan + cc.Bold + cc.Underline,
		Commands: cc.HiYellow + cc.Bold,
		Example:  cc.Italic,
		ExecName: cc.Bold,
		Flags:    cc.Bold,
	})
	cmd.Execute()
}
