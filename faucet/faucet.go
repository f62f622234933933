package faucet

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	stderr "github.com/pkg/errors"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/ledger"
	"github.com/oasislabs/ledger-gateway/log"
	"github.com/oasislabs/ledger-gateway/metrics"
)

const mintOperation = "mint"

// Minter mints coins on the test network
type Minter interface {
	Mint(ctx context.Context, receiver ledger.AccountAddress, microCoins uint64) errors.Err
}

// Services are the dependencies of a Client
type Services struct {
	Logger  log.Logger
	Metrics *metrics.OperationMetrics
}

// Props are the properties of a Client
type Props struct {
	// URL of the faucet service
	URL string

	// Retries of a request that fails because the faucet is unavailable
	Retries int

	// Timeout of a single request
	Timeout time.Duration
}

// Client mints coins through the remote faucet service of a test
// network
type Client struct {
	url     string
	client  *resty.Client
	logger  log.Logger
	metrics *metrics.OperationMetrics
}

// New creates a new faucet client
func New(services *Services, props *Props) *Client {
	client := resty.New().
		SetTimeout(props.Timeout).
		SetRetryCount(props.Retries).
		SetRetryWaitTime(100 * time.Millisecond).
		AddRetryCondition(func(res *resty.Response, err error) bool {
			return err == nil && res.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		url:     props.URL,
		client:  client,
		logger:  services.Logger.ForClass("faucet", "Client"),
		metrics: services.Metrics,
	}
}

// Mint asks the faucet to mint the amount of micro coins to the
// receiver. Any response other than 200 is a failure
func (c *Client) Mint(ctx context.Context, receiver ledger.AccountAddress, microCoins uint64) errors.Err {
	err := c.mint(ctx, receiver, microCoins)
	c.metrics.Observe(mintOperation, err)

	if err != nil {
		c.logger.Debug(ctx, "failed to mint coins", log.MapFields{
			"call_type": "MintFailure",
			"receiver":  receiver.Hex(),
			"amount":    microCoins,
		}, err)
		return err
	}

	c.logger.Debug(ctx, "coins minted", log.MapFields{
		"call_type": "MintSuccess",
		"receiver":  receiver.Hex(),
		"amount":    microCoins,
	})
	return nil
}

func (c *Client) mint(ctx context.Context, receiver ledger.AccountAddress, microCoins uint64) errors.Err {
	res, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"amount":  strconv.FormatUint(microCoins, 10),
			"address": strings.TrimPrefix(receiver.Hex(), "0x"),
		}).
		Get(c.url)
	if err != nil {
		return errors.New(errors.ErrMintCoins, stderr.Wrap(err, "failed to query faucet"))
	}

	if res.StatusCode() != http.StatusOK {
		return errors.New(errors.ErrMintCoins, stderr.Errorf(
			"faucet responded with status %d: %s", res.StatusCode(), res.String()))
	}

	return nil
}

// DefaultURL returns the faucet url of the test network the ledger
// url belongs to, which is the ledger host with "ac" replaced by
// "faucet"
func DefaultURL(ledgerURL string) (string, error) {
	u, err := url.Parse(ledgerURL)
	if err != nil {
		return "", stderr.Wrap(err, "failed to parse ledger url")
	}
	if len(u.Hostname()) == 0 {
		return "", stderr.Errorf("ledger url %s has no host", ledgerURL)
	}

	return (&url.URL{
		Scheme: "http",
		Host:   strings.Replace(u.Hostname(), "ac", "faucet", -1),
	}).String(), nil
}
