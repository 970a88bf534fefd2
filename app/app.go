package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abcfe/avax-types/api/rest"
	"github.com/abcfe/avax-types/common/errs"
	"github.com/abcfe/avax-types/common/logger"
	conf "github.com/abcfe/avax-types/config"
	"github.com/abcfe/avax-types/key"
	"github.com/abcfe/avax-types/key/custody"
	"github.com/abcfe/avax-types/storage"
	"github.com/abcfe/avax-types/wallet"
	"github.com/syndtr/goleveldb/leveldb"
)

// HotKeyID is the signer id of the mnemonic-derived key.
const HotKeyID = "hot"

type App struct {
	stop       chan struct{}
	Conf       conf.Config
	DB         *leveldb.DB // Mutex within db should not be copied
	Keys       *storage.KeyStore
	Signers    map[string]key.Signer
	restServer *rest.Server
}

func New(configPath string) (*App, error) {
	cfg, err := conf.NewConfig(configPath)
	if err != nil {
		fmt.Println("Failed to initialized application: ", err)
		return nil, err
	}

	if err := logger.InitLogger(cfg); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return nil, err
	}

	db, err := storage.InitDB(cfg)
	if err != nil {
		logger.Error("Failed to load db: ", err)
		return nil, err
	}

	return NewWithDB(cfg, db)
}

// NewWithDB wires signers and the REST server over an opened database.
func NewWithDB(cfg *conf.Config, db *leveldb.DB) (*App, error) {
	app := &App{
		stop:    make(chan struct{}),
		Conf:    *cfg,
		DB:      db,
		Keys:    storage.NewKeyStore(db),
		Signers: make(map[string]key.Signer),
	}

	if err := app.loadSigners(); err != nil {
		db.Close()
		return nil, err
	}

	app.restServer = rest.NewServer(cfg.Server.Host, cfg.Server.RestPort, cfg.Common.NetworkID, app.servedSigners(), app.Keys)
	app.restServer.SetAuthToken(cfg.Server.AuthToken)
	if cfg.Server.SignRateLimit > 0 {
		limits := rest.DefaultRateLimitConfig()
		limits.MaxSignsPerSecond = cfg.Server.SignRateLimit
		app.restServer.SetRateLimit(limits)
	}
	return app, nil
}

func (p *App) loadSigners() error {
	if mnemonic, passphrase := conf.Mnemonic(); mnemonic != "" {
		hot, err := key.FromMnemonicPath(mnemonic, passphrase, p.Conf.Wallet.DerivationPath)
		if err != nil {
			logger.Error("Failed to load mnemonic key: ", err)
			return err
		}
		if err := p.addSigner(HotKeyID, hot); err != nil {
			return err
		}
		logger.L().Info("hot key imported", logger.Object("key", hot))
	}

	if p.Conf.Custody.KeyID != "" {
		signer, err := p.CustodyKey(context.Background())
		if err != nil {
			logger.Error("Failed to load custody key: ", err)
			return err
		}
		if err := p.addSigner(p.Conf.Custody.KeyID, signer); err != nil {
			return err
		}
	}

	if len(p.Signers) == 0 {
		logger.Warn("no signer configured; set ", conf.EnvMnemonic, " or [Custody] KeyID")
	}
	return nil
}

// servedSigners is the set the custody routes may sign with. The hot key
// is left out unless ServeHotKey is set.
func (p *App) servedSigners() map[string]key.Signer {
	served := make(map[string]key.Signer, len(p.Signers))
	for id, signer := range p.Signers {
		if id == HotKeyID && !p.Conf.Server.ServeHotKey {
			continue
		}
		served[id] = signer
	}
	if _, ok := served[HotKeyID]; ok {
		logger.Warn("hot key is served on the custody API")
	}
	return served
}

func (p *App) addSigner(id string, signer key.Signer) error {
	info, err := signer.Info(p.Conf.Common.NetworkID)
	if err != nil {
		return err
	}
	if err := p.Keys.Put(info); err != nil {
		logger.Error("Failed to store key info: ", err)
		return err
	}
	p.Signers[id] = signer
	logger.Info("signer registered: ", id, " ", info.EthAddress, " ", info.XAddress)
	return nil
}

// CustodyKey connects to the configured custody backend: the HTTP signer
// service when Endpoint is set, AWS KMS otherwise.
func (p *App) CustodyKey(ctx context.Context) (*custody.Key, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Conf.CustodyTimeout())
	defer cancel()

	var client custody.Client
	if p.Conf.Custody.Endpoint != "" {
		client = custody.NewHTTPClient(p.Conf.Custody.Endpoint, p.Conf.Custody.Token, nil)
	} else {
		kmsClient, err := custody.NewKMSClient(ctx, p.Conf.Custody.Region, "")
		if err != nil {
			return nil, err
		}
		client = kmsClient
	}
	return custody.New(ctx, client, p.Conf.Custody.KeyID)
}

// Signer picks a signer by id, or the only one when id is empty.
func (p *App) Signer(id string) (key.Signer, error) {
	if id != "" {
		signer, ok := p.Signers[id]
		if !ok {
			return nil, fmt.Errorf("unknown signer %q", id)
		}
		return signer, nil
	}
	if signer, ok := p.Signers[HotKeyID]; ok {
		return signer, nil
	}
	for _, signer := range p.Signers {
		return signer, nil
	}
	return nil, fmt.Errorf("no signer configured")
}

// Wallet dials the configured RPC endpoint for signer. A configured
// ChainID must match what the endpoint reports.
func (p *App) Wallet(ctx context.Context, signer key.Signer) (*wallet.Wallet, func(), error) {
	client, err := wallet.Dial(ctx, p.Conf.RPC.Endpoint)
	if err != nil {
		return nil, nil, err
	}
	if want := p.Conf.RPC.ChainID; want != 0 {
		got, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		if !got.IsUint64() || got.Uint64() != want {
			client.Close()
			return nil, nil, errs.New(errs.KindInvalidData, "chain id",
				"endpoint %s reports chain %s, configured %d", p.Conf.RPC.Endpoint, got, want)
		}
	}
	return wallet.NewWallet(signer, client), client.Close, nil
}

// Handler exposes the REST router, e.g. for httptest.
func (p *App) Handler() http.Handler {
	return p.restServer.Handler()
}

func (p *App) NewRest() error {
	if err := p.restServer.Start(); err != nil {
		return fmt.Errorf("failed to start REST API server: %w", err)
	}

	logger.Info("All services started")
	return nil
}

func (p *App) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.restServer != nil {
		if err := p.restServer.Stop(ctx); err != nil {
			logger.Error("Error stopping REST API server: ", err)
		}
	}

	if p.DB != nil {
		if err := p.DB.Close(); err != nil {
			logger.Error("Error closing DB connection: ", err)
		}
	}

	logger.Info("All resources cleaned up")
	logger.Sync()
}

func (p *App) Wait() {
	<-p.stop
}

func (p *App) Terminate() {
	p.Cleanup()
	close(p.stop)
}

func (p *App) SigHandler() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Arrived terminate signal: ", sig)
		p.Terminate()
	}()
}
