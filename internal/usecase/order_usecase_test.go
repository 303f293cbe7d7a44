package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	users             repo.UserRepository
	orders            repo.OrderRepository
	payments          repo.PaymentRepository
	vouchers          repo.VoucherRepository
	shippingAddresses repo.ShippingAddressRepository
}

func (r *TxReposMock) Users() repo.UserRepository       { return r.users }
func (r *TxReposMock) Orders() repo.OrderRepository     { return r.orders }
func (r *TxReposMock) Payments() repo.PaymentRepository { return r.payments }
func (r *TxReposMock) Vouchers() repo.VoucherRepository { return r.vouchers }
func (r *TxReposMock) ShippingAddresses() repo.ShippingAddressRepository {
	return r.shippingAddresses
}

// =====================
// Repository mocks
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) UpsertByEmail(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByPhone(ctx context.Context, phone string) (model.User, error) {
	args := m.Called(ctx, phone)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) MarkMobileVerified(ctx context.Context, userID string, phone string) error {
	args := m.Called(ctx, userID, phone)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByOrderNumber(ctx context.Context, orderNumber string) (model.Order, error) {
	args := m.Called(ctx, orderNumber)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Update(ctx context.Context, order model.Order) (model.Order, error) {
	args := m.Called(ctx, order)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) UpdateEmailsSent(ctx context.Context, orderID string, audit model.EmailAudit) error {
	args := m.Called(ctx, orderID, audit)
	return args.Error(0)
}

func (m *OrderRepoMock) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, payment model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

type VoucherRepoMock struct{ mock.Mock }

func (m *VoucherRepoMock) FindByCode(ctx context.Context, code string) (model.Voucher, error) {
	args := m.Called(ctx, code)
	v, _ := args.Get(0).(model.Voucher)
	return v, args.Error(1)
}

func (m *VoucherRepoMock) CreateUsage(ctx context.Context, usage model.VoucherUsage) error {
	args := m.Called(ctx, usage)
	return args.Error(0)
}

func (m *VoucherRepoMock) IncrementUsedCount(ctx context.Context, voucherID int64) error {
	args := m.Called(ctx, voucherID)
	return args.Error(0)
}

type ShippingRepoMock struct{ mock.Mock }

func (m *ShippingRepoMock) Create(ctx context.Context, address model.ShippingAddress) (model.ShippingAddress, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(model.ShippingAddress)
	return a, args.Error(1)
}

// =====================
// collaborators
// =====================

type MailerMock struct {
	mock.Mock
	Results usecase.EmailResults
}

func (m *MailerMock) SendOrderLifecycleEmails(ctx context.Context, data usecase.OrderEmailData) usecase.EmailResults {
	m.Called(ctx, data)
	return m.Results
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return []string{
		"11111111-1111-1111-1111-111111111111",
		"22222222-2222-2222-2222-222222222222",
		"33333333-3333-3333-3333-333333333333",
		"44444444-4444-4444-4444-444444444444",
	}[g.n-1]
}

type nopLogger struct{}

func (l *nopLogger) Infof(format string, args ...interface{})  {}
func (l *nopLogger) Errorf(format string, args ...interface{}) {}

// =====================
// fixtures
// =====================

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

type orderFixture struct {
	uc       *usecase.OrderUsecase
	tx       *TxManagerMock
	users    *UserRepoMock
	orders   *OrderRepoMock
	payments *PaymentRepoMock
	vouchers *VoucherRepoMock
	shipping *ShippingRepoMock
	mailer   *MailerMock
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		users:    &UserRepoMock{},
		orders:   &OrderRepoMock{},
		payments: &PaymentRepoMock{},
		vouchers: &VoucherRepoMock{},
		shipping: &ShippingRepoMock{},
		mailer:   &MailerMock{},
	}

	f.tx = &TxManagerMock{
		Repos: &TxReposMock{
			users:             f.users,
			orders:            f.orders,
			payments:          f.payments,
			vouchers:          f.vouchers,
			shippingAddresses: f.shipping,
		},
	}
	f.tx.On("WithinTx", mock.Anything).Return(nil)

	f.uc = usecase.NewOrderUsecase(
		f.tx,
		f.orders,
		f.mailer,
		&seqIDGen{},
		&fixedClock{t: testNow},
		&nopLogger{},
	)
	return f
}

func validInput() usecase.ProcessOrderInput {
	return usecase.ProcessOrderInput{
		CardConfig: &model.CardConfig{
			FirstName: "Taro",
			LastName:  "Yamada",
			Quantity:  2,
		},
		CheckoutData: &usecase.CheckoutData{
			FullName:     "Taro Yamada",
			Email:        "taro@example.com",
			PhoneNumber:  "+14155550100",
			AddressLine1: "1 Main St",
			City:         "Austin",
			State:        "TX",
			Country:      "US",
			PostalCode:   "73301",
		},
	}
}

func stubHappyPathCreates(f *orderFixture) {
	f.users.On("UpsertByEmail", mock.Anything, mock.Anything).
		Return(model.User{ID: "user-1", Email: "taro@example.com"}, nil)
	f.orders.On("ExistsByOrderNumber", mock.Anything, mock.Anything).Return(false, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.shipping.On("Create", mock.Anything, mock.Anything).Return(model.ShippingAddress{ID: "addr-1"}, nil)
}

// =====================
// tests
// =====================

func TestProcessOrder_MissingData(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.ProcessOrder(context.Background(), usecase.ProcessOrderInput{})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestProcessOrder_ComputesPricing(t *testing.T) {
	f := newOrderFixture()
	stubHappyPathCreates(f)

	out, err := f.uc.ProcessOrder(context.Background(), validInput())
	assert.NoError(t, err)

	// subtotal = 29.99 × 2, tax = subtotal × 5.75%
	p := out.Order.Pricing
	assert.InDelta(t, 59.98, p.Subtotal, 0.0001)
	assert.InDelta(t, 5.00, p.Shipping, 0.0001)
	assert.InDelta(t, 59.98*0.0575, p.Tax, 0.0001)
	assert.InDelta(t, p.Subtotal+p.Shipping+p.Tax, p.Total, 0.0001)
}

func TestProcessOrder_ProvidedPricingWins(t *testing.T) {
	f := newOrderFixture()
	stubHappyPathCreates(f)

	in := validInput()
	in.CardConfig.IsDigitalOnly = true
	in.Pricing = &model.Pricing{}

	out, err := f.uc.ProcessOrder(context.Background(), in)
	assert.NoError(t, err)

	//無料デジタル注文は$0のまま
	assert.Equal(t, 0.0, out.Order.Pricing.Total)
	assert.Equal(t, model.PlanDigitalOnly, out.Order.PlanType)
}

func TestProcessOrder_WithoutPayment_PendingAndNoEmails(t *testing.T) {
	f := newOrderFixture()
	stubHappyPathCreates(f)

	out, err := f.uc.ProcessOrder(context.Background(), validInput())
	assert.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, out.Order.Status)
	assert.Equal(t, "Order created successfully, awaiting payment", out.Message)
	assert.Nil(t, out.EmailResults)
	f.mailer.AssertNotCalled(t, "SendOrderLifecycleEmails", mock.Anything, mock.Anything)
	f.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessOrder_WithPayment_ConfirmedAndEmailsAudited(t *testing.T) {
	f := newOrderFixture()
	stubHappyPathCreates(f)

	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("UpdateEmailsSent", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	f.mailer.Results = usecase.EmailResults{
		Confirmation: usecase.EmailResult{Success: true, MessageID: "msg-1"},
		Receipt:      usecase.EmailResult{Success: true, MessageID: "msg-2"},
	}
	f.mailer.On("SendOrderLifecycleEmails", mock.Anything, mock.Anything).Return()

	in := validInput()
	in.PaymentData = &usecase.PaymentData{PaymentMethod: "card", PaymentID: "pi_123"}

	out, err := f.uc.ProcessOrder(context.Background(), in)
	assert.NoError(t, err)

	assert.Equal(t, model.OrderStatusConfirmed, out.Order.Status)
	assert.NotNil(t, out.EmailResults)

	//支払いは1件、金額はセント
	f.payments.AssertNumberOfCalls(t, "Create", 1)
	payment := f.payments.Calls[0].Arguments.Get(1).(model.Payment)
	assert.Equal(t, out.Order.ID, payment.OrderID)
	assert.Equal(t, int64(6843), payment.Amount) // 68.42885ドル → 6843セント
	assert.Equal(t, "USD", payment.Currency)
	assert.Equal(t, model.PaymentStatusSucceeded, payment.Status)

	//監査mapに2種類のkindが残る
	assert.True(t, out.Order.EmailsSent["confirmation"].Sent)
	assert.True(t, out.Order.EmailsSent["receipt"].Sent)
	assert.Equal(t, "msg-1", out.Order.EmailsSent["confirmation"].MessageID)
}

func TestProcessOrder_IndiaUsesINR(t *testing.T) {
	f := newOrderFixture()
	stubHappyPathCreates(f)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("UpdateEmailsSent", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("SendOrderLifecycleEmails", mock.Anything, mock.Anything).Return()

	in := validInput()
	in.CheckoutData.Country = "IN"
	in.PaymentData = &usecase.PaymentData{PaymentMethod: "upi", PaymentID: "pi_in"}

	_, err := f.uc.ProcessOrder(context.Background(), in)
	assert.NoError(t, err)

	payment := f.payments.Calls[0].Arguments.Get(1).(model.Payment)
	assert.Equal(t, "INR", payment.Currency)
}

func TestProcessOrder_OrderIDNotFound(t *testing.T) {
	f := newOrderFixture()

	f.users.On("UpsertByEmail", mock.Anything, mock.Anything).
		Return(model.User{ID: "user-1"}, nil)
	f.orders.On("FindByOrderNumber", mock.Anything, "NFC-20260901-ABCDEF").
		Return(model.Order{}, repo.ErrNotFound)

	in := validInput()
	in.OrderID = "NFC-20260901-ABCDEF"

	_, err := f.uc.ProcessOrder(context.Background(), in)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)

	//何も作られない
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.shipping.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessOrder_OrderIDSniffsUUID(t *testing.T) {
	f := newOrderFixture()

	existing := model.Order{
		ID:          "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
		OrderNumber: "NFC-20260830-123456",
		Status:      model.OrderStatusPending,
	}

	f.users.On("UpsertByEmail", mock.Anything, mock.Anything).
		Return(model.User{ID: "user-1"}, nil)
	f.orders.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	f.orders.On("Update", mock.Anything, mock.Anything).Return(existing, nil)
	f.shipping.On("Create", mock.Anything, mock.Anything).Return(model.ShippingAddress{}, nil)

	in := validInput()
	in.OrderID = existing.ID

	_, err := f.uc.ProcessOrder(context.Background(), in)
	assert.NoError(t, err)

	f.orders.AssertCalled(t, "FindByID", mock.Anything, existing.ID)
	f.orders.AssertNotCalled(t, "FindByOrderNumber", mock.Anything, mock.Anything)
}

func TestProcessOrder_VoucherRedemption(t *testing.T) {
	f := newOrderFixture()
	stubHappyPathCreates(f)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("UpdateEmailsSent", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("SendOrderLifecycleEmails", mock.Anything, mock.Anything).Return()

	voucher := model.Voucher{ID: 7, Code: "WELCOME10", DiscountPercent: 10}
	f.vouchers.On("FindByCode", mock.Anything, "WELCOME10").Return(voucher, nil)
	f.vouchers.On("CreateUsage", mock.Anything, mock.Anything).Return(nil)
	f.vouchers.On("IncrementUsedCount", mock.Anything, int64(7)).Return(nil)

	in := validInput()
	in.PaymentData = &usecase.PaymentData{
		PaymentMethod:   "card",
		PaymentID:       "pi_v",
		VoucherCode:     "WELCOME10",
		VoucherDiscount: 10,
	}

	out, err := f.uc.ProcessOrder(context.Background(), in)
	assert.NoError(t, err)

	//利用記録1件＋カウンタ+1
	f.vouchers.AssertNumberOfCalls(t, "CreateUsage", 1)
	f.vouchers.AssertNumberOfCalls(t, "IncrementUsedCount", 1)

	usage := f.vouchers.Calls[1].Arguments.Get(1).(model.VoucherUsage)
	assert.Equal(t, int64(7), usage.VoucherID)
	assert.Equal(t, out.Order.ID, usage.OrderID)
	assert.InDelta(t, out.Order.Pricing.Total*0.10, usage.DiscountAmount, 0.0001)
}

func TestProcessOrder_VoucherExplicitAmountWins(t *testing.T) {
	f := newOrderFixture()
	stubHappyPathCreates(f)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("UpdateEmailsSent", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("SendOrderLifecycleEmails", mock.Anything, mock.Anything).Return()

	f.vouchers.On("FindByCode", mock.Anything, "FLAT5").
		Return(model.Voucher{ID: 8, Code: "FLAT5"}, nil)
	f.vouchers.On("CreateUsage", mock.Anything, mock.Anything).Return(nil)
	f.vouchers.On("IncrementUsedCount", mock.Anything, int64(8)).Return(nil)

	amount := 5.0
	in := validInput()
	in.PaymentData = &usecase.PaymentData{
		PaymentID:       "pi_f",
		VoucherCode:     "FLAT5",
		VoucherDiscount: 10,
		VoucherAmount:   &amount,
	}

	_, err := f.uc.ProcessOrder(context.Background(), in)
	assert.NoError(t, err)

	usage := f.vouchers.Calls[1].Arguments.Get(1).(model.VoucherUsage)
	assert.Equal(t, 5.0, usage.DiscountAmount)
}

func TestProcessOrder_UnknownVoucherIsSkipped(t *testing.T) {
	f := newOrderFixture()
	stubHappyPathCreates(f)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("UpdateEmailsSent", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("SendOrderLifecycleEmails", mock.Anything, mock.Anything).Return()

	f.vouchers.On("FindByCode", mock.Anything, "NOPE").
		Return(model.Voucher{}, repo.ErrNotFound)

	in := validInput()
	in.PaymentData = &usecase.PaymentData{PaymentID: "pi_x", VoucherCode: "NOPE"}

	_, err := f.uc.ProcessOrder(context.Background(), in)
	assert.NoError(t, err)

	f.vouchers.AssertNotCalled(t, "CreateUsage", mock.Anything, mock.Anything)
	f.vouchers.AssertNotCalled(t, "IncrementUsedCount", mock.Anything, mock.Anything)
}

func TestProcessOrder_EmailFailureStillSucceeds(t *testing.T) {
	f := newOrderFixture()
	stubHappyPathCreates(f)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("UpdateEmailsSent", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	//confirmationだけ落ちる
	f.mailer.Results = usecase.EmailResults{
		Confirmation: usecase.EmailResult{Success: false, Error: "provider down"},
		Receipt:      usecase.EmailResult{Success: true, MessageID: "msg-r"},
	}
	f.mailer.On("SendOrderLifecycleEmails", mock.Anything, mock.Anything).Return()

	in := validInput()
	in.PaymentData = &usecase.PaymentData{PaymentID: "pi_e"}

	out, err := f.uc.ProcessOrder(context.Background(), in)
	assert.NoError(t, err)

	assert.False(t, out.Order.EmailsSent["confirmation"].Sent)
	assert.True(t, out.Order.EmailsSent["receipt"].Sent)
}

func TestProcessOrder_AuditPatchFailureIsSwallowed(t *testing.T) {
	f := newOrderFixture()
	stubHappyPathCreates(f)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(nil)

	f.orders.On("UpdateEmailsSent", mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)

	f.mailer.Results = usecase.EmailResults{
		Confirmation: usecase.EmailResult{Success: true, MessageID: "a"},
		Receipt:      usecase.EmailResult{Success: true, MessageID: "b"},
	}
	f.mailer.On("SendOrderLifecycleEmails", mock.Anything, mock.Anything).Return()

	in := validInput()
	in.PaymentData = &usecase.PaymentData{PaymentID: "pi_a"}

	out, err := f.uc.ProcessOrder(context.Background(), in)

	//監査の書き込み失敗は成功レスポンスを崩さない
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, out.Order.Status)
}
