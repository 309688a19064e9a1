package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"bountychain/config"
	"bountychain/core"
	"bountychain/crypto"
	"bountychain/observability/logging"
	"bountychain/rpc"
	"bountychain/storage"
)

func main() {
	configPath := flag.String("config", "./config.toml", "path to the daemon configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Options{
		Service: "bountyd",
		Env:     cfg.Environment,
		File:    cfg.LogFile,
	})

	owner, err := crypto.DecodeAddress(cfg.OwnerAddress)
	if err != nil {
		logger.Error("invalid owner address", "err", err)
		os.Exit(1)
	}

	genesisRaw, err := cfg.GenesisBalances()
	if err != nil {
		logger.Error("invalid genesis allocation", "err", err)
		os.Exit(1)
	}
	genesis := make([]core.GenesisAlloc, 0, len(genesisRaw))
	for addrStr, balance := range genesisRaw {
		addr, err := crypto.DecodeAddress(addrStr)
		if err != nil {
			logger.Error("invalid genesis address", "address", addrStr, "err", err)
			os.Exit(1)
		}
		genesis = append(genesis, core.GenesisAlloc{Address: addr.Raw(), Balance: balance})
	}

	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "marketplace"))
	if err != nil {
		logger.Error("failed to open database", "dir", cfg.DataDir, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	feeBps := cfg.PlatformFeeBps
	node, err := core.NewNode(db, core.NodeConfig{
		Owner:       owner.Raw(),
		FeeBps:      &feeBps,
		Genesis:     genesis,
		EventBuffer: cfg.EventBuffer,
	})
	if err != nil {
		logger.Error("failed to initialise node", "err", err)
		os.Exit(1)
	}

	logger.Info("node ready",
		"network", cfg.NetworkName,
		"owner", cfg.OwnerAddress,
		"feeBps", cfg.PlatformFeeBps,
	)

	server := rpc.NewServer(node, cfg.AdminToken, logger)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("rpc server stopped", "err", err)
		os.Exit(1)
	}
}
