package usecase

import "errors"

// Sentinel errors for the failure modes the handlers translate into HTTP
// responses. Services wrap these with fmt.Errorf("%w: ...") to attach the
// user-presentable detail.
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrRefundNotFound        = errors.New("refund record not found")
	ErrForbidden             = errors.New("order does not belong to user")
	ErrOrderNotRefundable    = errors.New("order state does not allow refund")
	ErrMissingBookingDate    = errors.New("order has no booking date, refund unavailable")
	ErrRefundDeadlinePassed  = errors.New("refund deadline passed")
	ErrDuplicateActiveRefund = errors.New("duplicate active refund")
	ErrIllegalTransition     = errors.New("illegal status transition")
	ErrRefundNotReviewable   = errors.New("refund record cannot be reviewed")
)
