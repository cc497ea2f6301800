package billing

import (
	"context"
	"errors"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
)

// Config holds the Razorpay credentials and plan mapping loaded from
// the environment.
type Config struct {
	KeyID     string `env:"RAZORPAY_KEY_ID,required"`
	KeySecret string `env:"RAZORPAY_KEY_SECRET,required"`

	PlanEssentialID  string `env:"RAZORPAY_PLAN_ESSENTIAL"`
	PlanProID        string `env:"RAZORPAY_PLAN_PRO"`
	PlanEnterpriseID string `env:"RAZORPAY_PLAN_ENTERPRISE"`

	TrialPeriod        time.Duration `env:"BILLING_TRIAL_PERIOD" envDefault:"120h"`
	TotalBillingCycles int           `env:"BILLING_TOTAL_CYCLES" envDefault:"120"`
}

// PlanIDs returns the plan-key to provider-plan-id mapping for the
// catalog. Keys with no configured id are omitted.
func (c Config) PlanIDs() map[PlanKey]string {
	return map[PlanKey]string{
		PlanEssential:  c.PlanEssentialID,
		PlanPro:        c.PlanProID,
		PlanEnterprise: c.PlanEnterpriseID,
	}
}

// RazorpayProvider implements Provider on top of the Razorpay REST API.
type RazorpayProvider struct {
	client *razorpay.Client
}

// NewRazorpayProvider creates a provider with the given API credentials.
// Panics if either credential is empty.
func NewRazorpayProvider(keyID, keySecret string) *RazorpayProvider {
	if keyID == "" || keySecret == "" {
		panic("billing: razorpay credentials must not be empty")
	}
	return &RazorpayProvider{client: razorpay.NewClient(keyID, keySecret)}
}

func (p *RazorpayProvider) CreateCustomer(ctx context.Context, params CustomerParams) (string, error) {
	data := map[string]interface{}{
		"name":          params.Name,
		"email":         params.Email,
		"fail_existing": "0",
	}

	body, err := p.client.Customer.Create(data, nil)
	if err != nil {
		return "", errors.Join(ErrProvider, err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", errors.Join(ErrProvider, errors.New("customer response missing id"))
	}
	return id, nil
}

func (p *RazorpayProvider) CreateSubscription(ctx context.Context, params SubscriptionParams) (string, error) {
	data := map[string]interface{}{
		"plan_id":         params.PlanID,
		"total_count":     params.TotalCycles,
		"quantity":        params.Quantity,
		"customer_notify": 1,
	}
	if params.CustomerID != "" {
		data["customer_id"] = params.CustomerID
	}
	if !params.StartAt.IsZero() {
		data["start_at"] = params.StartAt.Unix()
	}

	body, err := p.client.Subscription.Create(data, nil)
	if err != nil {
		return "", errors.Join(ErrProvider, err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", errors.Join(ErrProvider, errors.New("subscription response missing id"))
	}
	return id, nil
}
