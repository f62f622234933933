package tx

import (
	"context"

	stderr "github.com/pkg/errors"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/ledger"
	"github.com/oasislabs/ledger-gateway/log"
	"github.com/oasislabs/ledger-gateway/metrics"
)

const signOperation = "sign"

// BuildRequest holds the inputs of a transaction that is built and
// signed by the gateway
type BuildRequest struct {
	// Sender of the transaction. If nil, the address of the signer
	// is used
	Sender *ledger.AccountAddress

	// SequenceNumber of the sender's next transaction
	SequenceNumber uint64

	// Program to execute
	Program ledger.Program

	// Gas overrides the builder's gas policy
	Gas GasOptions
}

// BuildAndSign builds the raw transaction with the builder, signs its
// canonical bytes with the signer and verifies the result
func BuildAndSign(
	ctx context.Context,
	signer Signer,
	builder *Builder,
	req BuildRequest,
) (*ledger.SignedTransaction, errors.Err) {
	var sender ledger.AccountAddress
	if req.Sender != nil {
		sender = *req.Sender
	} else {
		address, err := signer.Address(ctx)
		if err != nil {
			return nil, err
		}
		sender = address
	}

	raw := builder.Build(sender, req.SequenceNumber, req.Program, req.Gas)
	signed, err := signer.SignTransaction(ctx, raw)
	if err != nil {
		return nil, err
	}

	if !signed.Verify() {
		return nil, errors.New(errors.ErrSignature,
			stderr.Errorf("%s signer produced a signature that does not verify", signer.Kind()))
	}

	return signed, nil
}

// Services are the dependencies of a Service
type Services struct {
	Logger  log.Logger
	Metrics *metrics.OperationMetrics
}

// Props are the properties of a Service
type Props struct {
	Builder BuilderProps
}

// Service builds and signs transactions on behalf of the gateway's
// handlers, logging and counting every signature by credential kind
type Service struct {
	builder *Builder
	logger  log.Logger
	metrics *metrics.OperationMetrics
}

// NewService creates a new instance of the service
func NewService(services *Services, props *Props) *Service {
	return &Service{
		builder: NewBuilder(props.Builder),
		logger:  services.Logger.ForClass("tx", "Service"),
		metrics: services.Metrics,
	}
}

// Builder returns the builder used by the service
func (s *Service) Builder() *Builder {
	return s.builder
}

// BuildAndSign builds and signs a transaction with the credential
func (s *Service) BuildAndSign(
	ctx context.Context,
	credential Credential,
	req BuildRequest,
) (*ledger.SignedTransaction, errors.Err) {
	signer := credential.Signer()
	operation := signOperation + "_" + string(signer.Kind())

	timer := s.metrics.OperationTimer(operation)
	signed, err := BuildAndSign(ctx, signer, s.builder, req)
	timer.ObserveDuration()

	if err != nil {
		s.metrics.Observe(operation, err)
		s.logger.Debug(ctx, "failed to sign transaction", log.MapFields{
			"call_type": "SignTransactionFailure",
			"kind":      signer.Kind(),
		}, err)
		return nil, err
	}

	s.metrics.Observe(operation, nil)
	s.logger.Debug(ctx, "signed transaction", log.MapFields{
		"call_type": "SignTransactionSuccess",
		"kind":      signer.Kind(),
		"hash":      signed.Hash().Hex(),
	})

	return signed, nil
}
