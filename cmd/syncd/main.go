// Command syncd runs the regular block synchronization engine as a
// standalone daemon.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/lumichain/lumichain-go/internal/version"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "syncd"
	app.Usage = "tip-following block synchronization daemon"
	app.Version = version.Version
	app.Commands = []*cli.Command{
		newRunCommand(),
		newDBCommand(),
	}
	return app
}
