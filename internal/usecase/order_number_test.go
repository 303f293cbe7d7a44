package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

// ExistsByOrderNumberだけ差し替えられる軽量スタブ
type stubOrderRepo struct {
	OrderRepositoryStub
	exists     func(orderNumber string) (bool, error)
	candidates []string
}

type OrderRepositoryStub struct{}

func (OrderRepositoryStub) Create(ctx context.Context, order model.Order) error { panic("not used") }
func (OrderRepositoryStub) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	panic("not used")
}
func (OrderRepositoryStub) FindByOrderNumber(ctx context.Context, orderNumber string) (model.Order, error) {
	panic("not used")
}
func (OrderRepositoryStub) Update(ctx context.Context, order model.Order) (model.Order, error) {
	panic("not used")
}
func (OrderRepositoryStub) UpdateEmailsSent(ctx context.Context, orderID string, audit model.EmailAudit) error {
	panic("not used")
}
func (OrderRepositoryStub) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	panic("not used")
}

func (s *stubOrderRepo) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	s.candidates = append(s.candidates, orderNumber)
	return s.exists(orderNumber)
}

type stubClock struct{ t time.Time }

func (c *stubClock) Now() time.Time { return c.t }

func numberingUsecase() *OrderUsecase {
	return &OrderUsecase{
		clock: &stubClock{t: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func TestGenerateOrderNumber_Format(t *testing.T) {
	u := numberingUsecase()
	repo := &stubOrderRepo{exists: func(string) (bool, error) { return false, nil }}

	got, err := u.generateOrderNumber(context.Background(), repo, model.PlanNFCCardFull)
	assert.NoError(t, err)

	parts := strings.Split(got, "-")
	assert.Len(t, parts, 3)
	assert.Equal(t, "NFC", parts[0])
	assert.Equal(t, "20260901", parts[1])
	assert.Len(t, parts[2], 6)
}

func TestGenerateOrderNumber_PrefixPerPlan(t *testing.T) {
	u := numberingUsecase()
	repo := &stubOrderRepo{exists: func(string) (bool, error) { return false, nil }}

	cases := map[model.OrderPlanType]string{
		model.PlanDigitalOnly:       "DGT",
		model.PlanDigitalProfileApp: "DPA",
		model.PlanNFCCardFull:       "NFC",
	}
	for plan, prefix := range cases {
		got, err := u.generateOrderNumber(context.Background(), repo, plan)
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, prefix+"-"), "plan %s => %s", plan, got)
	}
}

func TestGenerateOrderNumber_RetriesOnCollision(t *testing.T) {
	u := numberingUsecase()

	calls := 0
	repo := &stubOrderRepo{exists: func(string) (bool, error) {
		calls++
		return calls == 1, nil //初回だけ衝突
	}}

	got, err := u.generateOrderNumber(context.Background(), repo, model.PlanNFCCardFull)
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, got, repo.candidates[1])
}

func TestGenerateOrderNumber_FallsBackAfterExhaustion(t *testing.T) {
	u := numberingUsecase()
	repo := &stubOrderRepo{exists: func(string) (bool, error) { return true, nil }}

	got, err := u.generateOrderNumber(context.Background(), repo, model.PlanDigitalOnly)
	assert.NoError(t, err)
	assert.Equal(t, 5, len(repo.candidates))

	//最後はUnixNanoで必ず一意
	assert.True(t, strings.HasPrefix(got, "DGT-20260901-"))
	assert.NotContains(t, repo.candidates, got)
}

func TestSelectPlanType(t *testing.T) {
	tests := []struct {
		name  string
		cfg   model.CardConfig
		total float64
		want  model.OrderPlanType
	}{
		{"free digital", model.CardConfig{IsDigitalOnly: true}, 0, model.PlanDigitalOnly},
		{"paid digital", model.CardConfig{BaseMaterial: "digital", IsDigitalOnly: true}, 9.99, model.PlanDigitalProfileApp},
		{"digital material with total", model.CardConfig{BaseMaterial: "digital"}, 34.99, model.PlanDigitalProfileApp},
		{"physical card", model.CardConfig{BaseMaterial: "metal"}, 68.42, model.PlanNFCCardFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectPlanType(tt.cfg, tt.total))
		})
	}
}

func TestCurrencyForCountry(t *testing.T) {
	assert.Equal(t, "INR", currencyForCountry("IN"))
	assert.Equal(t, "INR", currencyForCountry("India"))
	assert.Equal(t, "USD", currencyForCountry("US"))
	assert.Equal(t, "USD", currencyForCountry(""))
}
