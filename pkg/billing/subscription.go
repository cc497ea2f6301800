package billing

import "time"

// Status is the provider-reported lifecycle state of a subscription.
type Status string

const (
	StatusCreated       Status = "created"
	StatusAuthenticated Status = "authenticated"
	StatusActive        Status = "active"
	StatusPending       Status = "pending"
	StatusHalted        Status = "halted"
	StatusCancelled     Status = "cancelled"
	StatusCompleted     Status = "completed"
	StatusExpired       Status = "expired"
)

// Subscription is the stored snapshot of an educator's recurring
// billing relationship. Each educator has at most one.
type Subscription struct {
	EducatorID     string    `bson:"_id" json:"educator_id"`
	PlanKey        PlanKey   `bson:"plan_key" json:"plan_key"`
	Quantity       int       `bson:"quantity" json:"quantity"`
	Status         Status    `bson:"status" json:"status"`
	CustomerID     string    `bson:"customer_id" json:"customer_id"`
	SubscriptionID string    `bson:"subscription_id" json:"subscription_id"`
	StartAt        time.Time `bson:"start_at" json:"start_at"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

func (s *Subscription) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// InTrialAt reports whether billing has not started yet at the given
// time. The trial window is the span between creation and StartAt.
func (s *Subscription) InTrialAt(now time.Time) bool {
	return !s.StartAt.IsZero() && now.Before(s.StartAt)
}

// TrialDaysRemainingAt returns whole days left before billing begins,
// rounding partial days up. Zero once the trial has elapsed.
func (s *Subscription) TrialDaysRemainingAt(now time.Time) int {
	if !s.InTrialAt(now) {
		return 0
	}
	remaining := s.StartAt.Sub(now)
	days := remaining.Hours() / 24
	return int(days + 0.5)
}

// Owner is the reverse-lookup record written at creation time so
// asynchronous webhook processing can attribute provider events to an
// educator without re-deriving ownership.
type Owner struct {
	SubscriptionID string  `bson:"_id" json:"subscription_id"`
	EducatorID     string  `bson:"educator_id" json:"educator_id"`
	PlanKey        PlanKey `bson:"plan_key" json:"plan_key"`
}
