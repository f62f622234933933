package client

import (
	"context"
	"net/http"

	stderr "github.com/pkg/errors"
	"github.com/ybbus/jsonrpc"
	"mfycheng.dev/retry"
	"mfycheng.dev/retry/backoff"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/ledger"
	"github.com/oasislabs/ledger-gateway/log"
	"github.com/oasislabs/ledger-gateway/metrics"
)

const (
	methodGetAccountResource       = "get_account_resource"
	methodGetAccountStateWithProof = "get_account_state_with_proof"
	methodGetEventsByAccessPath    = "get_events_by_access_path"
	methodGetTransaction           = "get_transaction"
	methodSubmitTransaction        = "submit_transaction"

	codeRateLimited = 429
	codeServerError = 500
)

var (
	errRateLimited  = stderr.New("rate limited")
	errServiceError = stderr.New("service error")
)

// Services are the dependencies of an RPCClient
type Services struct {
	Logger  log.Logger
	Metrics *metrics.OperationMetrics
}

// Props are the properties of an RPCClient
type Props struct {
	Config Config

	// HTTPClient used to reach the node. If nil, a client with the
	// configured timeout is used
	HTTPClient *http.Client
}

// RPCClient is the JSON-RPC implementation of Client. Calls that fail
// because the node is rate limiting or unavailable are retried with
// exponential backoff
type RPCClient struct {
	client  jsonrpc.RPCClient
	retrier retry.Retrier
	logger  log.Logger
	metrics *metrics.OperationMetrics
}

// NewRPCClient creates a new client for the configured node
func NewRPCClient(services *Services, props *Props) *RPCClient {
	httpClient := props.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: props.Config.Timeout}
	}

	return &RPCClient{
		client: jsonrpc.NewClientWithOpts(props.Config.URL, &jsonrpc.RPCClientOpts{
			HTTPClient: httpClient,
		}),
		retrier: retry.NewRetrier(
			retry.RetriableErrors(errRateLimited, errServiceError),
			retry.Limit(props.Config.Retries),
			retry.BackoffWithJitter(
				backoff.BinaryExponential(props.Config.BaseBackoff),
				props.Config.MaxBackoff,
				0.1),
		),
		logger:  services.Logger.ForClass("client", "RPCClient"),
		metrics: services.Metrics,
	}
}

func (c *RPCClient) call(ctx context.Context, out interface{}, method string, params interface{}) error {
	timer := c.metrics.OperationTimer(method)
	defer timer.ObserveDuration()

	var lastErr error
	attempts, err := c.retrier.Retry(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.client.CallFor(out, method, params)
		lastErr = err
		if err == nil {
			return nil
		}

		switch err := err.(type) {
		case *jsonrpc.RPCError:
			if err.Code == codeRateLimited {
				return errRateLimited
			}
			if err.Code >= codeServerError {
				return errServiceError
			}
		case *jsonrpc.HTTPError:
			if err.Code == http.StatusTooManyRequests {
				return errRateLimited
			}
			if err.Code >= http.StatusInternalServerError {
				return errServiceError
			}
		}

		return err
	})

	if err != nil {
		if err == errRateLimited || err == errServiceError {
			err = stderr.Wrap(lastErr, err.Error())
		}

		c.metrics.OperationCounter(method, metrics.StatusFailure).Inc()
		c.logger.Debug(ctx, "ledger call failed", log.MapFields{
			"call_type": "LedgerCallFailure",
			"method":    method,
			"attempts":  attempts,
			"err":       err.Error(),
		})
		return err
	}

	c.metrics.OperationCounter(method, metrics.StatusOK).Inc()
	return nil
}

// GetAccountResource implementation of Client
func (c *RPCClient) GetAccountResource(
	ctx context.Context,
	address ledger.AccountAddress,
) (*ledger.AccountResource, errors.Err) {
	var resource *accountResourceDTO
	if err := c.call(ctx, &resource, methodGetAccountResource, getAccountRequest{Address: address}); err != nil {
		return nil, errors.New(errors.ErrGetAccountState, err)
	}

	if resource == nil {
		return nil, nil
	}

	return resource.decode(), nil
}

// GetAccountStateWithProof implementation of Client
func (c *RPCClient) GetAccountStateWithProof(
	ctx context.Context,
	address ledger.AccountAddress,
) (*ledger.AccountStateWithProof, errors.Err) {
	var state *accountStateWithProofDTO
	if err := c.call(ctx, &state, methodGetAccountStateWithProof, getAccountRequest{Address: address}); err != nil {
		return nil, errors.New(errors.ErrGetAccountState, err)
	}

	if state == nil {
		return nil, nil
	}

	return state.decode(), nil
}

// GetEventsByAccessPath implementation of Client
func (c *RPCClient) GetEventsByAccessPath(
	ctx context.Context,
	path ledger.AccessPath,
	start uint64,
	ascending bool,
	limit uint64,
) ([]ledger.EventWithProof, *ledger.AccountStateWithProof, errors.Err) {
	var res eventsByAccessPathDTO
	if err := c.call(ctx, &res, methodGetEventsByAccessPath, getEventsRequest{
		AccessPath:       accessPathDTO{Address: path.Address, Path: path.Path},
		StartEventSeqNum: start,
		Ascending:        ascending,
		Limit:            limit,
	}); err != nil {
		return nil, nil, errors.New(errors.ErrGetEvents, err)
	}

	events := make([]ledger.EventWithProof, len(res.Events))
	for i := range res.Events {
		events[i] = res.Events[i].decode()
	}

	var state *ledger.AccountStateWithProof
	if res.Account != nil {
		state = res.Account.decode()
	}

	return events, state, nil
}

// GetTransaction implementation of Client
func (c *RPCClient) GetTransaction(
	ctx context.Context,
	address ledger.AccountAddress,
	sequenceNumber uint64,
	fetchEvents bool,
) (*ledger.SignedTransaction, []ledger.ContractEvent, errors.Err) {
	var res *transactionDTO
	if err := c.call(ctx, &res, methodGetTransaction, getTransactionRequest{
		Account:        address,
		SequenceNumber: sequenceNumber,
		FetchEvents:    fetchEvents,
	}); err != nil {
		return nil, nil, errors.New(errors.ErrGetTransaction, err)
	}

	if res == nil {
		return nil, nil, errors.New(errors.ErrTransactionNotFound, stderr.Errorf(
			"no transaction with sequence number %d for %s", sequenceNumber, address.Hex()))
	}

	var events []ledger.ContractEvent
	if res.Events != nil {
		events = make([]ledger.ContractEvent, len(*res.Events))
		for i := range *res.Events {
			events[i] = (*res.Events)[i].decode()
		}
	}

	return res.Transaction.decode(), events, nil
}

// SubmitTransaction implementation of Client
func (c *RPCClient) SubmitTransaction(ctx context.Context, signed *ledger.SignedTransaction) errors.Err {
	var res submitTransactionResponse
	if err := c.call(ctx, &res, methodSubmitTransaction, submitTransactionRequest{
		SignedTxn: encodeSignedTransaction(signed),
	}); err != nil {
		return errors.New(errors.ErrSubmitTransaction, err)
	}

	if res.ACStatus != acStatusAccepted {
		return errors.New(errors.ErrSubmitTransaction, stderr.Errorf(
			"transaction rejected with status %s %s", res.ACStatus, res.VMStatus))
	}

	c.logger.Debug(ctx, "transaction submitted", log.MapFields{
		"call_type": "SubmitTransactionSuccess",
		"hash":      signed.Hash().Hex(),
	})
	return nil
}
