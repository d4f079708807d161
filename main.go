// Package main is the entry point of the pawnrank CLI.
package main

import (
	"os"

	"github.com/pawnrank/pawnrank/cmd"
	"github.com/pawnrank/pawnrank/internal/iocache"
	"github.com/rs/zerolog/log"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		log.Error().Err(err).Msg("pawnrank failed")
		os.Exit(1)
	}
}
