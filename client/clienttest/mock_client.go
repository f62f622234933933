package clienttest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/ledger"
)

type MockMethod struct {
	Arguments []interface{}
	Return    []interface{}
	Run       func(mock.Arguments)
}

type MockMethods map[string]MockMethod

var DefaultMockMethods = map[string]MockMethod{
	"GetAccountResource": MockMethod{
		Arguments: []interface{}{mock.Anything, mock.Anything},
		Return: []interface{}{
			&ledger.AccountResource{Balance: 1000000, SequenceNumber: 5}, nil,
		},
	},
	"GetAccountStateWithProof": MockMethod{
		Arguments: []interface{}{mock.Anything, mock.Anything},
		Return:    []interface{}{nil, nil},
	},
	"GetEventsByAccessPath": MockMethod{
		Arguments: []interface{}{mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything},
		Return:    []interface{}{[]ledger.EventWithProof{}, nil, nil},
	},
	"GetTransaction": MockMethod{
		Arguments: []interface{}{mock.Anything, mock.Anything, mock.Anything, mock.Anything},
		Return: []interface{}{
			nil, nil, errors.New(errors.ErrTransactionNotFound, nil),
		},
	},
	"SubmitTransaction": MockMethod{
		Arguments: []interface{}{mock.Anything, mock.Anything},
		Return:    []interface{}{nil},
	},
}

func OverwriteDefaults(overwrite MockMethods) MockMethods {
	methods := make(MockMethods)

	for key, value := range DefaultMockMethods {
		if o, ok := overwrite[key]; ok {
			methods[key] = o
		} else {
			methods[key] = value
		}
	}

	return methods
}

func ImplementMockWithOverwrite(client *MockClient, overwrite MockMethods) {
	ImplementMockWithMethods(client, OverwriteDefaults(overwrite))
}

func ImplementMockWithMethods(client *MockClient, methods MockMethods) {
	for key, method := range methods {
		call := client.On(key, method.Arguments...)
		if len(method.Return) > 0 {
			call = call.Return(method.Return...)
		}
		if method.Run != nil {
			call = call.Run(method.Run)
		}
	}
}

func ImplementMock(client *MockClient) {
	ImplementMockWithMethods(client, DefaultMockMethods)
}

type MockClient struct {
	mock.Mock
}

func getErr(args mock.Arguments, index int) errors.Err {
	err, _ := args.Get(index).(errors.Err)
	return err
}

func (m *MockClient) GetAccountResource(
	ctx context.Context,
	address ledger.AccountAddress,
) (*ledger.AccountResource, errors.Err) {
	args := m.Called(ctx, address)
	resource, _ := args.Get(0).(*ledger.AccountResource)
	return resource, getErr(args, 1)
}

func (m *MockClient) GetAccountStateWithProof(
	ctx context.Context,
	address ledger.AccountAddress,
) (*ledger.AccountStateWithProof, errors.Err) {
	args := m.Called(ctx, address)
	state, _ := args.Get(0).(*ledger.AccountStateWithProof)
	return state, getErr(args, 1)
}

func (m *MockClient) GetEventsByAccessPath(
	ctx context.Context,
	path ledger.AccessPath,
	start uint64,
	ascending bool,
	limit uint64,
) ([]ledger.EventWithProof, *ledger.AccountStateWithProof, errors.Err) {
	args := m.Called(ctx, path, start, ascending, limit)
	events, _ := args.Get(0).([]ledger.EventWithProof)
	state, _ := args.Get(1).(*ledger.AccountStateWithProof)
	return events, state, getErr(args, 2)
}

func (m *MockClient) GetTransaction(
	ctx context.Context,
	address ledger.AccountAddress,
	sequenceNumber uint64,
	fetchEvents bool,
) (*ledger.SignedTransaction, []ledger.ContractEvent, errors.Err) {
	args := m.Called(ctx, address, sequenceNumber, fetchEvents)
	signed, _ := args.Get(0).(*ledger.SignedTransaction)
	events, _ := args.Get(1).([]ledger.ContractEvent)
	return signed, events, getErr(args, 2)
}

func (m *MockClient) SubmitTransaction(ctx context.Context, signed *ledger.SignedTransaction) errors.Err {
	args := m.Called(ctx, signed)
	return getErr(args, 0)
}
