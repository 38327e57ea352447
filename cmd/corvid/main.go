package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/corvid-chess/corvid/search"
	"github.com/corvid-chess/corvid/uci"
)

const (
	name   = "Corvid"
	author = "corvid-chess"
)

var (
	versionName = "dev"
	gitRevision = "(null)"
	flgHash     int
	flgThreads  int
)

func main() {
	flag.IntVar(&flgHash, "hash", 64, "transposition table size in MB")
	flag.IntVar(&flgThreads, "threads", 1, "number of search threads")
	flag.Parse()

	var logger = log.New(os.Stderr, "", log.LstdFlags)
	logger.Println(name,
		"VersionName", versionName,
		"GitRevision", gitRevision,
		"RuntimeVersion", runtime.Version(),
		"NumCPU", runtime.NumCPU(),
	)

	var cfg = search.DefaultConfig()
	cfg.HashMB = flgHash
	cfg.Threads = flgThreads

	var coordinator = uci.NewCoordinatorWithStack(cfg, nil)
	var engine = uci.NewCoordinatorEngine(coordinator)

	uci.Run(engine)
}
