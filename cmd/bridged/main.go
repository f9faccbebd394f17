// Command bridged boots an in-process bridge chain: it deploys the denom
// manager, liquidity manager and gateway contracts, runs the relayer loop
// against the gateway's event stream and serves the HTTP query API.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"osmobridge/chain"
	"osmobridge/config"
	"osmobridge/contracts/denom"
	"osmobridge/contracts/gateway"
	"osmobridge/contracts/liquidity"
	"osmobridge/crypto"
	"osmobridge/gov"
	"osmobridge/observability/logging"
	"osmobridge/relayer"
	"osmobridge/rpc"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("OSMOBRIDGE_ENV"))
	logger := logging.Setup("bridged", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	key, err := loadRelayerKey(cfg.Chain.RelayerKeyHex)
	if err != nil {
		logger.Error("failed to load relayer key", slog.Any("error", err))
		os.Exit(1)
	}
	signer := relayer.NewSigner(key)
	owner, err := signer.Address()
	if err != nil {
		logger.Error("failed to derive owner address", slog.Any("error", err))
		os.Exit(1)
	}

	genesisTime := cfg.Chain.GenesisTime
	if genesisTime == 0 {
		genesisTime = uint64(time.Now().Unix())
	}
	app := chain.NewApp(genesisTime)

	contracts, err := deploy(app, cfg, owner, signer.PublicKey())
	if err != nil {
		logger.Error("failed to deploy contracts", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("contracts deployed",
		"owner", owner,
		"gateway", contracts.Gateway,
		"liquidity_manager", contracts.LiquidityManager,
		"denom_manager", contracts.DenomManager,
	)

	indexer := relayer.NewIndexer(contracts.Gateway, logger)
	app.SetEmitter(indexer)
	rly := relayer.New(contracts.Gateway, "", signer, app, logger)

	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := rly.ProcessPending(indexer); err != nil {
				logger.Error("relayer pass failed", slog.Any("error", err))
			}
		}
	}()

	server := rpc.NewServer(app, contracts, logger)
	logger.Info("query api listening", "addr", cfg.ListenAddress)
	if err := http.ListenAndServe(cfg.ListenAddress, server.Router()); err != nil {
		logger.Error("http server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// deploy instantiates the three contracts under the owner and grants the
// gateway its liquidity-manager role.
func deploy(app *chain.App, cfg *config.Config, owner string, pubKey []byte) (rpc.Contracts, error) {
	dm, err := app.Instantiate(denom.New(), owner, denom.InstantiateMsg{}, nil, "denom-manager")
	if err != nil {
		return rpc.Contracts{}, fmt.Errorf("instantiate denom manager: %w", err)
	}
	lm, err := app.Instantiate(liquidity.New(), owner, liquidity.InstantiateMsg{
		Denom:           cfg.Chain.Denom,
		LpDenom:         cfg.Chain.LpSubdenom,
		UnbondingPeriod: cfg.Chain.UnbondingPeriod,
	}, nil, "liquidity-manager")
	if err != nil {
		return rpc.Contracts{}, fmt.Errorf("instantiate liquidity manager: %w", err)
	}
	gw, err := app.Instantiate(gateway.New(), owner, gateway.InstantiateMsg{
		LiquidityManager: lm,
		DenomManager:     dm,
		PublicKey:        pubKey,
	}, nil, "gateway")
	if err != nil {
		return rpc.Contracts{}, fmt.Errorf("instantiate gateway: %w", err)
	}
	if _, err := app.Execute(owner, lm, liquidity.ExecuteMsg{
		GrantRole: &liquidity.RoleMsg{Role: gov.RoleGateway, Addr: gw},
	}, nil); err != nil {
		return rpc.Contracts{}, fmt.Errorf("grant gateway role: %w", err)
	}
	return rpc.Contracts{Gateway: gw, LiquidityManager: lm, DenomManager: dm}, nil
}

// loadRelayerKey decodes the configured key or generates an ephemeral one for
// local runs.
func loadRelayerKey(hexKey string) (*crypto.PrivateKey, error) {
	if strings.TrimSpace(hexKey) == "" {
		return crypto.GeneratePrivateKey()
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, err
	}
	return crypto.PrivateKeyFromBytes(raw)
}
