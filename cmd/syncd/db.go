package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/lumichain/lumichain-go/pkg/storage"
)

func newDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "inspect the on-disk chain database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "datadir",
				Aliases:  []string{"d"},
				Usage:    "path to the daemon's data directory",
				Required: true,
			},
		},
		Subcommands: []*cli.Command{
			{
				Name:  "best",
				Usage: "print the best (highest) block number and its total difficulty",
				Action: func(c *cli.Context) error {
					return dbBest(c.String("datadir"))
				},
			},
			{
				Name:  "reset",
				Usage: "discard the unconfirmed staging area left behind by an interrupted reorg",
				Action: func(c *cli.Context) error {
					return dbReset(c.String("datadir"))
				},
			},
		},
	}
}

func dbBest(dataDir string) error {
	store, err := storage.OpenBolt(filepath.Join(dataDir, "chain.db"))
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close() //nolint:errcheck

	n := store.BestBlockNumber()
	header, ok := store.GetBlockHeaderByNumber(n)
	if !ok {
		return fmt.Errorf("no header found for best block number %d", n)
	}
	td, _ := store.GetTotalDifficultyByHash(header.Hash())
	fmt.Printf("best block: %d  hash: %s  total difficulty: %s\n", n, header.Hash(), td)
	return nil
}

func dbReset(dataDir string) error {
	store, err := storage.OpenBolt(filepath.Join(dataDir, "chain.db"))
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close() //nolint:errcheck

	if err := store.ClearUnconfirmed(); err != nil {
		return fmt.Errorf("clearing unconfirmed staging area: %w", err)
	}
	fmt.Println("unconfirmed staging area cleared")
	return nil
}
