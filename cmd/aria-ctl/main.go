// aria-ctl sends control commands to a running aria daemon.
package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"aria/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Daemon control socket")
	cli.Parse()

	cmd := "trigger"
	if args := cli.Args(); len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "trigger", "flush", "shutdown":
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want trigger, flush or shutdown)\n", cmd)
		os.Exit(2)
	}

	if err := ipc.Send(*socket, cmd); err != nil {
		fmt.Println("aria-daemon not running:", err)
		os.Exit(1)
	}
}
