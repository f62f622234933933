package gateway

import (
	"context"
	"io/ioutil"

	stderr "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oasislabs/ledger-gateway/api/v0/account"
	"github.com/oasislabs/ledger-gateway/api/v0/health"
	"github.com/oasislabs/ledger-gateway/api/v0/info"
	"github.com/oasislabs/ledger-gateway/api/v0/transaction"
	"github.com/oasislabs/ledger-gateway/client"
	"github.com/oasislabs/ledger-gateway/faucet"
	"github.com/oasislabs/ledger-gateway/log"
	"github.com/oasislabs/ledger-gateway/metrics"
	"github.com/oasislabs/ledger-gateway/rpc"
	"github.com/oasislabs/ledger-gateway/tx"
	"github.com/oasislabs/ledger-gateway/wallet"
)

const serviceName = "ledger_gateway"

// Services are the components the http handlers of the gateway are
// built from
type Services struct {
	Logger         log.Logger
	Client         client.Client
	Minter         faucet.Minter
	Tx             *tx.Service
	Resolver       *tx.CredentialResolver
	TransferScript []byte
	Metrics        *metrics.ServiceMetrics

	// SharedWallet is nil if the gateway is not configured with one
	SharedWallet *wallet.Owner
}

// Factories allow replacing how the remote dependencies of the
// gateway are created
type Factories struct {
	ClientFactory ClientFactoryFunc
	MinterFactory MinterFactoryFunc
}

type ClientFactoryFunc func(ctx context.Context, logger log.Logger, config *Config) (client.Client, error)

type MinterFactoryFunc func(ctx context.Context, logger log.Logger, config *Config) (faucet.Minter, error)

// DefaultFactories create the clients that reach the configured
// ledger node and faucet
var DefaultFactories = Factories{
	ClientFactory: NewLedgerClient,
	MinterFactory: NewMinter,
}

// NewLedgerClient creates the JSON-RPC client of the configured node
func NewLedgerClient(ctx context.Context, logger log.Logger, config *Config) (client.Client, error) {
	return client.NewRPCClient(&client.Services{
		Logger:  logger,
		Metrics: metrics.NewOperationMetrics(prometheus.DefaultRegisterer, "ledger_client"),
	}, &client.Props{
		Config: config.LedgerConfig,
	}), nil
}

// NewMinter creates the faucet client. The faucet url is derived from
// the ledger url if it is not configured
func NewMinter(ctx context.Context, logger log.Logger, config *Config) (faucet.Minter, error) {
	url := config.FaucetConfig.URL
	if len(url) == 0 {
		derived, err := faucet.DefaultURL(config.LedgerConfig.URL)
		if err != nil {
			return nil, stderr.Wrap(err, "failed to derive faucet url")
		}
		url = derived
	}

	return faucet.New(&faucet.Services{
		Logger:  logger,
		Metrics: metrics.NewOperationMetrics(prometheus.DefaultRegisterer, "faucet"),
	}, &faucet.Props{
		URL:     url,
		Retries: config.FaucetConfig.Retries,
		Timeout: config.FaucetConfig.Timeout,
	}), nil
}

// NewSharedWallet creates the shared wallet if the configuration has
// a mnemonic, and derives the preloaded children. It returns nil
// otherwise
func NewSharedWallet(ctx context.Context, config *wallet.Config) (*wallet.Owner, error) {
	if len(config.Mnemonic) == 0 {
		return nil, nil
	}

	w, err := wallet.NewFromMnemonic(config.Mnemonic, config.Props())
	if err != nil {
		return nil, err
	}

	for i := uint(0); i < config.Preload; i++ {
		if _, err := w.NewAddressAtChild(wallet.ChildNumber(i)); err != nil {
			return nil, err
		}
	}

	return wallet.NewOwner(w), nil
}

// ReadTransferScript reads the compiled transfer script. An empty
// path means the gateway does not accept transfers
func ReadTransferScript(path string) ([]byte, error) {
	if len(path) == 0 {
		return nil, nil
	}

	script, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, stderr.Wrap(err, "failed to read transfer script")
	}
	if len(script) == 0 {
		return nil, stderr.Errorf("transfer script %s is empty", path)
	}

	return script, nil
}

func NewServices(ctx context.Context, logger log.Logger, config *Config, factories Factories) (Services, error) {
	shared, err := NewSharedWallet(ctx, &config.WalletConfig)
	if err != nil {
		return Services{}, err
	}

	script, err := ReadTransferScript(config.TxConfig.TransferScriptPath)
	if err != nil {
		return Services{}, err
	}

	ledgerClient, err := factories.ClientFactory(ctx, logger, config)
	if err != nil {
		return Services{}, err
	}

	minter, err := factories.MinterFactory(ctx, logger, config)
	if err != nil {
		return Services{}, err
	}

	txService := tx.NewService(&tx.Services{
		Logger:  logger,
		Metrics: metrics.NewOperationMetrics(prometheus.DefaultRegisterer, "tx"),
	}, &tx.Props{
		Builder: config.TxConfig.BuilderProps(),
	})

	return Services{
		Logger:         logger,
		Client:         ledgerClient,
		Minter:         minter,
		Tx:             txService,
		TransferScript: script,
		SharedWallet:   shared,
		Metrics:        metrics.NewDefaultServiceMetrics(prometheus.DefaultRegisterer, serviceName),
		Resolver: tx.NewCredentialResolver(tx.CredentialResolverProps{
			SharedWallet: shared,
			WalletProps:  config.WalletConfig.Props(),
		}),
	}, nil
}

func NewRouter(services Services, bind BindConfig) *rpc.HttpRouter {
	binder := rpc.NewHttpBinder(rpc.HttpBinderProperties{
		Encoder:        rpc.JsonEncoder{},
		Logger:         services.Logger,
		HandlerFactory: rpc.NewHttpJsonHandlerFactory(1<<16, services.Logger),
		Metrics:        services.Metrics,
	})

	binder.AddPreProcessor(rpc.NewHttpCorsPreProcessor(rpc.HttpCorsPreProcessorProps{
		Enabled:        bind.CorsEnabled,
		AllowedOrigins: bind.CorsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type", rpc.HttpHeaderTraceID},
		ExposedHeaders: []string{rpc.HttpHeaderTraceID},
		MaxAge:         bind.CorsMaxAge,
	}))

	// a nil owner must not be stored in the interface
	var senders info.Wallet
	if services.SharedWallet != nil {
		senders = services.SharedWallet
	}

	health.BindHandler(health.Services{}, binder)
	info.BindHandler(info.Services{
		Logger: services.Logger,
		Wallet: senders,
	}, binder)
	account.BindHandler(account.Services{
		Logger: services.Logger,
		Client: services.Client,
		Minter: services.Minter,
	}, binder)
	transaction.BindHandler(transaction.Services{
		Logger:         services.Logger,
		Client:         services.Client,
		Tx:             services.Tx,
		Resolver:       services.Resolver,
		TransferScript: services.TransferScript,
	}, binder)

	return binder.Build()
}
