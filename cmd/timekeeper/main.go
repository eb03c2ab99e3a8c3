package main

import (
	"fmt"
	"os"

	"github.com/warp/timekeeper/cli"
	"github.com/warp/timekeeper/config"
	"github.com/warp/timekeeper/core"
	"github.com/warp/timekeeper/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	app := &cli.App{
		Config: cfg,
		Open: func(path string) (core.Store, func() error, error) {
			store, err := sqlite.New(path)
			if err != nil {
				return nil, nil, err
			}
			return store, store.Close, nil
		},
	}

	return cli.NewRootCmd(app).Execute()
}
