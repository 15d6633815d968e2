package usecase

import (
	"context"
	"time"

	"booking-orders/internal/data/entity"
	"booking-orders/pkg/cache"
	"booking-orders/pkg/database"
	"booking-orders/pkg/gateway"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// stubTx runs the unit of work directly; none of the repository mocks touch
// the Querier they receive.
type stubTx struct{}

func (s stubTx) InTx(ctx context.Context, fn func(q database.Querier) error) error {
	return fn(nil)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if order, ok := args.Get(0).(*entity.Order); ok {
		return order, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) FindByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, q, id)
	if order, ok := args.Get(0).(*entity.Order); ok {
		return order, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) UpdateStatusTx(ctx context.Context, q database.Querier, id uuid.UUID, status entity.OrderStatus, at time.Time) error {
	args := m.Called(ctx, q, id, status, at)
	return args.Error(0)
}

func (m *mockOrderRepo) MarkRefundRequestedTx(ctx context.Context, q database.Querier, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, q, id, at)
	return args.Error(0)
}

type mockHistoryRepo struct {
	mock.Mock
}

func (m *mockHistoryRepo) CreateTx(ctx context.Context, q database.Querier, history *entity.OrderStatusHistory) error {
	args := m.Called(ctx, q, history)
	return args.Error(0)
}

func (m *mockHistoryRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderStatusHistory, error) {
	args := m.Called(ctx, orderID)
	if histories, ok := args.Get(0).([]*entity.OrderStatusHistory); ok {
		return histories, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRefundRepo struct {
	mock.Mock
}

func (m *mockRefundRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.RefundRecord, error) {
	args := m.Called(ctx, id)
	if record, ok := args.Get(0).(*entity.RefundRecord); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRefundRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.RefundRecord, error) {
	args := m.Called(ctx, orderID)
	if records, ok := args.Get(0).([]*entity.RefundRecord); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRefundRepo) Approve(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *mockRefundRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRefundRepo) Reject(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	args := m.Called(ctx, id, reason, at)
	return args.Error(0)
}

func (m *mockRefundRepo) CreateTx(ctx context.Context, q database.Querier, record *entity.RefundRecord) error {
	args := m.Called(ctx, q, record)
	return args.Error(0)
}

func (m *mockRefundRepo) FindActiveByOrderIDTx(ctx context.Context, q database.Querier, orderID uuid.UUID) (*entity.RefundRecord, error) {
	args := m.Called(ctx, q, orderID)
	if record, ok := args.Get(0).(*entity.RefundRecord); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRefundRepo) ExistsByOrderIDTx(ctx context.Context, q database.Querier, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, q, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRefundRepo) FindByRefundNoTx(ctx context.Context, q database.Querier, refundNo string) (*entity.RefundRecord, error) {
	args := m.Called(ctx, q, refundNo)
	if record, ok := args.Get(0).(*entity.RefundRecord); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRefundRepo) MarkCompletedTx(ctx context.Context, q database.Querier, id uuid.UUID, gatewayRefundID string, refundedAt time.Time) error {
	args := m.Called(ctx, q, id, gatewayRefundID, refundedAt)
	return args.Error(0)
}

func (m *mockRefundRepo) MarkFailedTx(ctx context.Context, q database.Querier, id uuid.UUID, gatewayRefundID string) error {
	args := m.Called(ctx, q, id, gatewayRefundID)
	return args.Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) SubmitRefund(ctx context.Context, submission *gateway.RefundSubmission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Verify(timestamp, nonce string, body []byte, signature, serial string) error {
	args := m.Called(timestamp, nonce, body, signature, serial)
	return args.Error(0)
}

func (m *mockAuthenticator) Decrypt(ciphertext, associatedData, nonce string) ([]byte, error) {
	args := m.Called(ciphertext, associatedData, nonce)
	if plain, ok := args.Get(0).([]byte); ok {
		return plain, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) RefundCompleted(ctx context.Context, record *entity.RefundRecord) {
	m.Called(ctx, record)
}

// noopCache misses on every read and accepts every write.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string) (string, error) { return "", cache.ErrMiss }
func (noopCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}
func (noopCache) Del(ctx context.Context, keys ...string) error { return nil }
