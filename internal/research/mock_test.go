package research

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/halcyon-research/equity-cli/pkg/alphavantage"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

// --- Alpha Vantage Mock ---

type mockMarketClient struct {
	mock.Mock
}

func (m *mockMarketClient) CompanyOverview(ctx context.Context, symbol string) (alphavantage.Payload, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(alphavantage.Payload), args.Error(1)
}

func (m *mockMarketClient) GlobalQuote(ctx context.Context, symbol string) (alphavantage.Payload, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(alphavantage.Payload), args.Error(1)
}

func (m *mockMarketClient) Earnings(ctx context.Context, symbol string) (alphavantage.Payload, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(alphavantage.Payload), args.Error(1)
}

func (m *mockMarketClient) IncomeStatement(ctx context.Context, symbol string) (alphavantage.Payload, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(alphavantage.Payload), args.Error(1)
}

func (m *mockMarketClient) BalanceSheet(ctx context.Context, symbol string) (alphavantage.Payload, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(alphavantage.Payload), args.Error(1)
}

func (m *mockMarketClient) CashFlow(ctx context.Context, symbol string) (alphavantage.Payload, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(alphavantage.Payload), args.Error(1)
}

func (m *mockMarketClient) EarningsEstimates(ctx context.Context, symbol string) (alphavantage.Payload, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(alphavantage.Payload), args.Error(1)
}

func (m *mockMarketClient) EarningsCallTranscript(ctx context.Context, symbol, quarter string) (alphavantage.Payload, error) {
	args := m.Called(ctx, symbol, quarter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(alphavantage.Payload), args.Error(1)
}

func (m *mockMarketClient) NewsSentiment(ctx context.Context, tickers []string) (alphavantage.Payload, error) {
	args := m.Called(ctx, tickers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(alphavantage.Payload), args.Error(1)
}

// --- Anthropic Mock ---

type mockModelClient struct {
	mock.Mock
}

func (m *mockModelClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// expectStage registers a canned JSON reply for every request carrying the
// given system instructions.
func expectStage(m *mockModelClient, instructions, body string) *mock.Call {
	return m.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		// RunObject appends an output-format directive to the system
		// prompt, so match on the instruction prefix.
		return strings.HasPrefix(req.System, instructions)
	})).Return(&anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: body}},
		Usage:   anthropic.TokenUsage{InputTokens: 1000, OutputTokens: 200},
	}, nil)
}

// expectStageError registers a failing reply for every request carrying
// the given system instructions.
func expectStageError(m *mockModelClient, instructions string, err error) *mock.Call {
	return m.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return strings.HasPrefix(req.System, instructions)
	})).Return(nil, err)
}

func (m *mockMarketClient) SymbolSearch(ctx context.Context, keywords string) (alphavantage.Payload, error) {
	args := m.Called(ctx, keywords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(alphavantage.Payload), args.Error(1)
}
