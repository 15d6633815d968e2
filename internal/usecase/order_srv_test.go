package usecase

import (
	"context"
	"testing"
	"time"

	"booking-orders/internal/data/entity"
	"booking-orders/internal/data/repository"
	"booking-orders/internal/dto/request"
	"booking-orders/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFixture struct {
	orderRepo   *mockOrderRepo
	historyRepo *mockHistoryRepo
	refundRepo  *mockRefundRepo
	service     OrderService
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		orderRepo:   new(mockOrderRepo),
		historyRepo: new(mockHistoryRepo),
		refundRepo:  new(mockRefundRepo),
	}
	repo := &repository.Repository{
		Order:   f.orderRepo,
		History: f.historyRepo,
		Refund:  f.refundRepo,
		Tx:      stubTx{},
	}
	config := &utils.Config{}
	config.Redis.TTLSeconds = 60
	f.service = NewOrderService(repo, noopCache{}, config, zap.NewNop())
	return f
}

// expectDetailRead arranges the mocks for the fresh read that follows a
// successful transition.
func (f *orderFixture) expectDetailRead(order *entity.Order) {
	f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.historyRepo.On("FindByOrderID", mock.Anything, order.ID).Return([]*entity.OrderStatusHistory{}, nil)
	f.refundRepo.On("FindByOrderID", mock.Anything, order.ID).Return([]*entity.RefundRecord{}, nil)
}

func TestUpdateOrderStatus_PaidToCompleted(t *testing.T) {
	f := newOrderFixture(t)
	order := paidOrder(uuid.New(), 72*time.Hour)
	adminID := uuid.New()

	var captured *entity.OrderStatusHistory
	f.orderRepo.On("FindByIDTx", mock.Anything, mock.Anything, order.ID).Return(order, nil)
	f.orderRepo.On("UpdateStatusTx", mock.Anything, mock.Anything, order.ID, entity.OrderStatusCompleted, mock.AnythingOfType("time.Time")).Return(nil)
	f.historyRepo.On("CreateTx", mock.Anything, mock.Anything, mock.AnythingOfType("*entity.OrderStatusHistory")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(*entity.OrderStatusHistory)
		}).
		Return(nil)
	f.expectDetailRead(order)

	_, err := f.service.UpdateOrderStatus(context.Background(), adminID.String(), order.ID.String(), &request.UpdateOrderStatusRequest{
		Status: "completed",
		Reason: "screening finished",
	})

	require.NoError(t, err)
	require.NotNil(t, captured)
	require.NotNil(t, captured.FromStatus)
	assert.Equal(t, entity.OrderStatusPaid, *captured.FromStatus)
	assert.Equal(t, entity.OrderStatusCompleted, captured.ToStatus)
	assert.Equal(t, "screening finished", captured.Reason)
	assert.Equal(t, adminID, captured.ActorID)
}

func TestUpdateOrderStatus_DefaultReason(t *testing.T) {
	f := newOrderFixture(t)
	order := paidOrder(uuid.New(), 72*time.Hour)

	var captured *entity.OrderStatusHistory
	f.orderRepo.On("FindByIDTx", mock.Anything, mock.Anything, order.ID).Return(order, nil)
	f.orderRepo.On("UpdateStatusTx", mock.Anything, mock.Anything, order.ID, entity.OrderStatusCompleted, mock.Anything).Return(nil)
	f.historyRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(*entity.OrderStatusHistory)
		}).
		Return(nil)
	f.expectDetailRead(order)

	_, err := f.service.UpdateOrderStatus(context.Background(), uuid.New().String(), order.ID.String(), &request.UpdateOrderStatusRequest{
		Status: "completed",
	})

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "status changed to completed by operator", captured.Reason)
}

func TestUpdateOrderStatus_IllegalTransitions(t *testing.T) {
	f := newOrderFixture(t)

	cases := []struct {
		from entity.OrderStatus
		to   string
	}{
		{entity.OrderStatusPending, "completed"},
		{entity.OrderStatusPending, "refunded"},
		{entity.OrderStatusPaid, "cancelled"},
		{entity.OrderStatusCompleted, "paid"},
		{entity.OrderStatusCancelled, "pending"},
		{entity.OrderStatusRefunded, "paid"},
	}

	for _, c := range cases {
		t.Run(string(c.from)+"_to_"+c.to, func(t *testing.T) {
			order := paidOrder(uuid.New(), 72*time.Hour)
			order.Status = c.from
			f.orderRepo.On("FindByIDTx", mock.Anything, mock.Anything, order.ID).Return(order, nil)

			_, err := f.service.UpdateOrderStatus(context.Background(), uuid.New().String(), order.ID.String(), &request.UpdateOrderStatusRequest{
				Status: c.to,
			})

			assert.ErrorIs(t, err, ErrIllegalTransition)
		})
	}

	f.orderRepo.AssertNotCalled(t, "UpdateStatusTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.historyRepo.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_RefundedCreatesImplicitRecord(t *testing.T) {
	f := newOrderFixture(t)
	order := paidOrder(uuid.New(), 72*time.Hour)

	var captured *entity.RefundRecord
	f.orderRepo.On("FindByIDTx", mock.Anything, mock.Anything, order.ID).Return(order, nil)
	f.orderRepo.On("UpdateStatusTx", mock.Anything, mock.Anything, order.ID, entity.OrderStatusRefunded, mock.Anything).Return(nil)
	f.historyRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.refundRepo.On("FindActiveByOrderIDTx", mock.Anything, mock.Anything, order.ID).Return(nil, nil)
	f.refundRepo.On("ExistsByOrderIDTx", mock.Anything, mock.Anything, order.ID).Return(false, nil)
	f.refundRepo.On("CreateTx", mock.Anything, mock.Anything, mock.AnythingOfType("*entity.RefundRecord")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(*entity.RefundRecord)
		}).
		Return(nil)
	f.expectDetailRead(order)

	_, err := f.service.UpdateOrderStatus(context.Background(), uuid.New().String(), order.ID.String(), &request.UpdateOrderStatusRequest{
		Status: "refunded",
	})

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, order.ID, captured.OrderID)
	assert.Equal(t, order.UserID, captured.UserID)
	assert.Equal(t, order.ActualAmount, captured.Amount)
	assert.Equal(t, entity.RefundStatusPending, captured.Status)
	assert.Equal(t, "admin-initiated", captured.Reason)
	assert.Regexp(t, `^REF\d{20}$`, captured.RefundNo)
}

func TestUpdateOrderStatus_RefundedBlockedByActiveRefund(t *testing.T) {
	f := newOrderFixture(t)
	order := paidOrder(uuid.New(), 72*time.Hour)
	active := &entity.RefundRecord{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		RefundNo:     "REF202608300001000212345678",
		OrderID:      order.ID,
		Status:       entity.RefundStatusProcessing,
	}

	f.orderRepo.On("FindByIDTx", mock.Anything, mock.Anything, order.ID).Return(order, nil)
	f.orderRepo.On("UpdateStatusTx", mock.Anything, mock.Anything, order.ID, entity.OrderStatusRefunded, mock.Anything).Return(nil)
	f.historyRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.refundRepo.On("FindActiveByOrderIDTx", mock.Anything, mock.Anything, order.ID).Return(active, nil)

	_, err := f.service.UpdateOrderStatus(context.Background(), uuid.New().String(), order.ID.String(), &request.UpdateOrderStatusRequest{
		Status: "refunded",
	})

	assert.ErrorIs(t, err, ErrDuplicateActiveRefund)
	f.refundRepo.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_RefundedSkipsRecordWhenHistoryExists(t *testing.T) {
	f := newOrderFixture(t)
	order := paidOrder(uuid.New(), 72*time.Hour)

	f.orderRepo.On("FindByIDTx", mock.Anything, mock.Anything, order.ID).Return(order, nil)
	f.orderRepo.On("UpdateStatusTx", mock.Anything, mock.Anything, order.ID, entity.OrderStatusRefunded, mock.Anything).Return(nil)
	f.historyRepo.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.refundRepo.On("FindActiveByOrderIDTx", mock.Anything, mock.Anything, order.ID).Return(nil, nil)
	f.refundRepo.On("ExistsByOrderIDTx", mock.Anything, mock.Anything, order.ID).Return(true, nil)
	f.expectDetailRead(order)

	_, err := f.service.UpdateOrderStatus(context.Background(), uuid.New().String(), order.ID.String(), &request.UpdateOrderStatusRequest{
		Status: "refunded",
	})

	require.NoError(t, err)
	f.refundRepo.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_OrderNotFound(t *testing.T) {
	f := newOrderFixture(t)
	id := uuid.New()

	f.orderRepo.On("FindByIDTx", mock.Anything, mock.Anything, id).Return(nil, nil)

	_, err := f.service.UpdateOrderStatus(context.Background(), uuid.New().String(), id.String(), &request.UpdateOrderStatusRequest{
		Status: "completed",
	})

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateOrderStatus_UnknownStatusRejected(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.service.UpdateOrderStatus(context.Background(), uuid.New().String(), uuid.New().String(), &request.UpdateOrderStatusRequest{
		Status: "shipped",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	f.orderRepo.AssertNotCalled(t, "FindByIDTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetOrderDetail_AssemblesHistoryAndRefunds(t *testing.T) {
	f := newOrderFixture(t)
	order := paidOrder(uuid.New(), 72*time.Hour)
	from := entity.OrderStatusPending

	histories := []*entity.OrderStatusHistory{
		{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
			OrderID:    order.ID,
			FromStatus: &from,
			ToStatus:   entity.OrderStatusPaid,
			Reason:     "payment received",
			ActorID:    order.UserID,
		},
	}
	refunds := []*entity.RefundRecord{
		{
			BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
			RefundNo:     "REF202608300001000212345678",
			OrderID:      order.ID,
			UserID:       order.UserID,
			Status:       entity.RefundStatusRejected,
		},
	}

	f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.historyRepo.On("FindByOrderID", mock.Anything, order.ID).Return(histories, nil)
	f.refundRepo.On("FindByOrderID", mock.Anything, order.ID).Return(refunds, nil)

	detail, err := f.service.GetOrderDetail(context.Background(), order.ID.String())

	require.NoError(t, err)
	assert.Equal(t, order.OrderNo, detail.OrderNo)
	require.Len(t, detail.History, 1)
	assert.Equal(t, "paid", detail.History[0].ToStatus)
	require.NotNil(t, detail.History[0].FromStatus)
	assert.Equal(t, "pending", *detail.History[0].FromStatus)
	require.Len(t, detail.Refunds, 1)
	assert.Equal(t, "rejected", detail.Refunds[0].Status)
}

func TestGetOrderDetail_NotFound(t *testing.T) {
	f := newOrderFixture(t)
	id := uuid.New()

	f.orderRepo.On("FindByID", mock.Anything, id).Return(nil, nil)

	_, err := f.service.GetOrderDetail(context.Background(), id.String())

	assert.ErrorIs(t, err, ErrOrderNotFound)
}
