package billing

import "errors"

var (
	ErrUnknownPlan              = errors.New("billing: unknown plan key")
	ErrInvalidEducatorID        = errors.New("billing: invalid educator id")
	ErrSubscriptionNotFound     = errors.New("billing: subscription not found")
	ErrOwnerNotFound            = errors.New("billing: subscription owner not found")
	ErrProvider                 = errors.New("billing: payment provider request failed")
	ErrFailedToSaveSubscription = errors.New("billing: failed to save subscription")
)
