package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/kkarlsen/shade/internal/cli"
	"github.com/kkarlsen/shade/internal/config"
)

func main() {
	store := config.NewStore(config.DefaultDir())

	// The overlay host reinitializes its AI client on material config
	// changes; here the observer just records them.
	store.OnChange(func(cfg config.Config) {
		logrus.WithField("provider", cfg.APIProvider).Debug("configuration updated")
	})

	if err := cli.New(store).Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
