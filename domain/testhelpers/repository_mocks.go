package testhelpers

import (
	"context"
	"time"

	"herocraft/domain/entities"
	"herocraft/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, accountID int64) (*entities.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetOrCreateForUpdate(ctx context.Context, accountID int64) (*entities.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, accountID int64, newBalance int64, rewardAt time.Time) error {
	args := m.Called(ctx, accountID, newBalance, rewardAt)
	return args.Error(0)
}

func (m *MockAccountRepository) GetTop(ctx context.Context, limit int) ([]*entities.Account, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

// MockWheelSettlementRepository is a mock implementation of WheelSettlementRepository
type MockWheelSettlementRepository struct {
	mock.Mock
}

func (m *MockWheelSettlementRepository) Create(ctx context.Context, settlement *entities.WheelSettlement) error {
	args := m.Called(ctx, settlement)
	return args.Error(0)
}

func (m *MockWheelSettlementRepository) GetByDay(ctx context.Context, day time.Time) ([]*entities.WheelSettlement, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WheelSettlement), args.Error(1)
}

func (m *MockWheelSettlementRepository) GetLatest(ctx context.Context) (*entities.WheelSettlement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WheelSettlement), args.Error(1)
}

// MockLotteryStateRepository is a mock implementation of LotteryStateRepository
type MockLotteryStateRepository struct {
	mock.Mock
}

func (m *MockLotteryStateRepository) Get(ctx context.Context) (*entities.LotteryState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryState), args.Error(1)
}

func (m *MockLotteryStateRepository) GetForUpdate(ctx context.Context) (*entities.LotteryState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryState), args.Error(1)
}

func (m *MockLotteryStateRepository) Update(ctx context.Context, state *entities.LotteryState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockLotteryStateRepository) AddToPot(ctx context.Context, amount int64) (int64, error) {
	args := m.Called(ctx, amount)
	return args.Get(0).(int64), args.Error(1)
}

// MockLotteryTicketRepository is a mock implementation of LotteryTicketRepository
type MockLotteryTicketRepository struct {
	mock.Mock
}

func (m *MockLotteryTicketRepository) Create(ctx context.Context, ticket *entities.LotteryTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockLotteryTicketRepository) GetByAccount(ctx context.Context, accountID int64) ([]*entities.LotteryTicket, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LotteryTicket), args.Error(1)
}

func (m *MockLotteryTicketRepository) CountByAccount(ctx context.Context, accountID int64) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

func (m *MockLotteryTicketRepository) GetAll(ctx context.Context) ([]*entities.LotteryTicket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LotteryTicket), args.Error(1)
}

func (m *MockLotteryTicketRepository) DeleteByIDs(ctx context.Context, accountID int64, ids []int64) (int64, error) {
	args := m.Called(ctx, accountID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLotteryTicketRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLotteryTicketRepository) CountParticipants(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockLotteryTicketRepository) CountTickets(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockLotteryDrawingRepository is a mock implementation of LotteryDrawingRepository
type MockLotteryDrawingRepository struct {
	mock.Mock
}

func (m *MockLotteryDrawingRepository) Create(ctx context.Context, drawing *entities.LotteryDrawing) error {
	args := m.Called(ctx, drawing)
	return args.Error(0)
}

func (m *MockLotteryDrawingRepository) GetLatest(ctx context.Context) (*entities.LotteryDrawing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryDrawing), args.Error(1)
}

func (m *MockLotteryDrawingRepository) GetByDay(ctx context.Context, day time.Time) ([]*entities.LotteryDrawing, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LotteryDrawing), args.Error(1)
}

// MockVoiceRewardRepository is a mock implementation of VoiceRewardRepository
type MockVoiceRewardRepository struct {
	mock.Mock
}

func (m *MockVoiceRewardRepository) Get(ctx context.Context, accountID, channelID int64, day time.Time) (*entities.VoiceRewardUsage, error) {
	args := m.Called(ctx, accountID, channelID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VoiceRewardUsage), args.Error(1)
}

func (m *MockVoiceRewardRepository) AddUsage(ctx context.Context, accountID, channelID int64, day time.Time, minutes int, coins int64) error {
	args := m.Called(ctx, accountID, channelID, day, minutes, coins)
	return args.Error(0)
}

func (m *MockVoiceRewardRepository) GetByAccountDay(ctx context.Context, accountID int64, day time.Time) ([]*entities.VoiceRewardUsage, error) {
	args := m.Called(ctx, accountID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.VoiceRewardUsage), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
