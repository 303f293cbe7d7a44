package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// メール1通分の送信結果
type EmailResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// confirmation / receipt の2通セット
type EmailResults struct {
	Confirmation EmailResult `json:"confirmation"`
	Receipt      EmailResult `json:"receipt"`
}

// メール向けに整形した注文
type OrderEmailData struct {
	OrderNumber       string
	CustomerName      string
	Email             string
	CardConfig        model.CardConfig
	Pricing           model.Pricing
	Shipping          model.ShippingInfo
	EstimatedDelivery string
}

// 注文確定メールの送信窓口
type EmailSender interface {
	SendOrderLifecycleEmails(ctx context.Context, data OrderEmailData) EmailResults
}

// 固定の価格設定
const (
	unitPrice   = 29.99
	shippingFee = 5.00
	taxRate     = 0.0575
)

type OrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository // tx外のbest-effort更新用
	mailer EmailSender
	idGen  IDGenerator
	clock  Clock
	log    Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	mailer EmailSender,
	idGen IDGenerator,
	clock Clock,
	log Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:     tx,
		orders: orders,
		mailer: mailer,
		idGen:  idGen,
		clock:  clock,
		log:    log,
	}
}

// チェックアウト画面の入力
type CheckoutData struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	PostalCode   string `json:"postalCode"`
}

// 決済完了後に渡される支払い情報
type PaymentData struct {
	PaymentMethod   string   `json:"paymentMethod"`
	PaymentID       string   `json:"paymentId"`
	VoucherCode     string   `json:"voucherCode"`
	VoucherDiscount float64  `json:"voucherDiscount"`
	VoucherAmount   *float64 `json:"voucherAmount"`
}

type ProcessOrderInput struct {
	CardConfig   *model.CardConfig
	CheckoutData *CheckoutData
	PaymentData  *PaymentData
	OrderID      string
	Pricing      *model.Pricing
}

type ProcessOrderOutput struct {
	Order        model.Order
	EmailResults *EmailResults
	Message      string
}

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ProcessOrderは注文の作成/支払い反映を1トランザクションで行い、
// confirmedになった注文だけメールを送る。
func (u *OrderUsecase) ProcessOrder(ctx context.Context, in ProcessOrderInput) (ProcessOrderOutput, error) {
	var out ProcessOrderOutput

	if in.CardConfig == nil || in.CheckoutData == nil {
		return out, NewHTTPError(http.StatusBadRequest, "missing required data")
	}

	pricing := resolvePricing(in)

	// 支払いが来ていればconfirmed、チェックアウトだけならpending
	status := model.OrderStatusPending
	if in.PaymentData != nil {
		status = model.OrderStatusConfirmed
	}

	var order model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//ユーザーをemailでupsert
		user, err := r.Users().UpsertByEmail(ctx, u.buildUser(in))
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "user creation failed")
		}

		if in.OrderID != "" {
			//決済後の更新パス
			existing, err := u.findExistingOrder(ctx, r.Orders(), in.OrderID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			existing.Status = status
			if in.PaymentData != nil {
				existing.PaymentMethod = in.PaymentData.PaymentMethod
				existing.PaymentID = in.PaymentData.PaymentID
				existing.VoucherCode = in.PaymentData.VoucherCode
				existing.VoucherDiscount = in.PaymentData.VoucherDiscount
			}

			order, err = r.Orders().Update(ctx, existing)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "failed to update order")
			}
		} else {
			//新規作成パス
			planType := selectPlanType(*in.CardConfig, pricing.Total)

			orderNumber, err := u.generateOrderNumber(ctx, r.Orders(), planType)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "failed to generate order number")
			}

			now := u.clock.Now()
			order = model.Order{
				ID:           u.idGen.NewID(),
				OrderNumber:  orderNumber,
				UserID:       user.ID,
				Status:       status,
				CustomerName: in.CheckoutData.FullName,
				Email:        in.CheckoutData.Email,
				PhoneNumber:  in.CheckoutData.PhoneNumber,
				CardConfig:   *in.CardConfig,
				PlanType:     planType,
				Pricing:      pricing,
				Shipping: model.ShippingInfo{
					FullName:     in.CheckoutData.FullName,
					AddressLine1: in.CheckoutData.AddressLine1,
					AddressLine2: in.CheckoutData.AddressLine2,
					City:         in.CheckoutData.City,
					State:        in.CheckoutData.State,
					Country:      in.CheckoutData.Country,
					PostalCode:   in.CheckoutData.PostalCode,
					PhoneNumber:  in.CheckoutData.PhoneNumber,
				},
				EstimatedDelivery: now.Add(7 * 24 * time.Hour).Format("Jan 02, 2006"),
				EmailsSent:        model.EmailAudit{},
				CreatedAt:         now,
				UpdatedAt:         now,
			}

			if err := r.Orders().Create(ctx, order); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "order creation failed")
			}
		}

		//支払い記録＋バウチャー
		if in.PaymentData != nil {
			if err := u.recordPayment(ctx, r, user, order, *in.PaymentData, pricing, in.CheckoutData.Country); err != nil {
				return err
			}
		}

		//配送先スナップショット
		_, err = r.ShippingAddresses().Create(ctx, model.ShippingAddress{
			ID:           u.idGen.NewID(),
			UserID:       user.ID,
			OrderID:      order.ID,
			FullName:     in.CheckoutData.FullName,
			AddressLine1: in.CheckoutData.AddressLine1,
			AddressLine2: in.CheckoutData.AddressLine2,
			City:         in.CheckoutData.City,
			State:        in.CheckoutData.State,
			PostalCode:   in.CheckoutData.PostalCode,
			Country:      in.CheckoutData.Country,
			PhoneNumber:  in.CheckoutData.PhoneNumber,
			IsDefault:    false,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "failed to save shipping address")
		}

		return nil
	})

	if err != nil {
		return ProcessOrderOutput{}, err
	}

	//確定した注文だけメールを送る。失敗しても注文は成功扱い
	if order.Status == model.OrderStatusConfirmed {
		results := u.mailer.SendOrderLifecycleEmails(ctx, FormatOrderForEmail(order))

		now := u.clock.Now()
		audit := model.EmailAudit{
			"confirmation": {
				Sent:      results.Confirmation.Success,
				Timestamp: now.UnixMilli(),
				MessageID: results.Confirmation.MessageID,
			},
			"receipt": {
				Sent:      results.Receipt.Success,
				Timestamp: now.UnixMilli(),
				MessageID: results.Receipt.MessageID,
			},
		}

		if err := u.orders.UpdateEmailsSent(ctx, order.ID, audit); err != nil {
			//監査の書き込み失敗は呑んで、手元のorderをそのまま返す
			u.log.Errorf("failed to update email audit for order %s: %v", order.OrderNumber, err)
		}
		order.EmailsSent = audit

		out.EmailResults = &results
	} else {
		out.Message = "Order created successfully, awaiting payment"
	}

	out.Order = order
	return out, nil
}

// 提供されたpricingを優先し、無ければ固定単価から計算する
func resolvePricing(in ProcessOrderInput) model.Pricing {
	if in.Pricing != nil {
		return *in.Pricing
	}

	quantity := in.CardConfig.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	subtotal := unitPrice * float64(quantity)
	tax := subtotal * taxRate

	return model.Pricing{
		Subtotal: subtotal,
		Shipping: shippingFee,
		Tax:      tax,
		Total:    subtotal + shippingFee + tax,
	}
}

// 最初に当たったルールで決める
func selectPlanType(cfg model.CardConfig, total float64) model.OrderPlanType {
	//無料のデジタルのみ
	if cfg.IsDigitalOnly && total == 0 {
		return model.PlanDigitalOnly
	}
	//デジタル＋サブスク
	if cfg.BaseMaterial == "digital" && (cfg.IsDigitalOnly || total > 0) {
		return model.PlanDigitalProfileApp
	}
	//物理カード
	return model.PlanNFCCardFull
}

// orderIdはUUIDか注文番号のどちらか。形式で判別する
func (u *OrderUsecase) findExistingOrder(ctx context.Context, orders repo.OrderRepository, orderID string) (model.Order, error) {
	if uuidPattern.MatchString(strings.ToLower(orderID)) {
		return orders.FindByID(ctx, orderID)
	}
	return orders.FindByOrderNumber(ctx, orderID)
}

func (u *OrderUsecase) recordPayment(
	ctx context.Context,
	r repo.TxRepos,
	user model.User,
	order model.Order,
	pay PaymentData,
	pricing model.Pricing,
	country string,
) error {
	//金額はセントに丸める
	amount := int64(math.Round(pricing.Total * 100))

	paymentIntentID := pay.PaymentID
	if paymentIntentID == "" {
		paymentIntentID = fmt.Sprintf("payment_%d", u.clock.Now().UnixMilli())
	}

	method := pay.PaymentMethod
	if method == "" {
		method = "unknown"
	}

	payment := model.Payment{
		ID:              u.idGen.NewID(),
		OrderID:         order.ID,
		PaymentIntentID: paymentIntentID,
		Amount:          amount,
		Currency:        currencyForCountry(country),
		Status:          model.PaymentStatusSucceeded,
		PaymentMethod:   method,
		Metadata: map[string]any{
			"voucherCode":     pay.VoucherCode,
			"voucherDiscount": pay.VoucherDiscount,
		},
	}

	if err := r.Payments().Create(ctx, payment); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "failed to record payment")
	}

	if pay.VoucherCode == "" {
		return nil
	}

	voucher, err := r.Vouchers().FindByCode(ctx, pay.VoucherCode)
	if errors.Is(err, repo.ErrNotFound) {
		//存在しないコードは記録だけ残して無視する
		u.log.Infof("voucher code %s not found, skipping usage tracking", pay.VoucherCode)
		return nil
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//明示の割引額があれば優先、無ければ合計×％
	discount := 0.0
	if pay.VoucherAmount != nil {
		discount = *pay.VoucherAmount
	} else if pay.VoucherDiscount > 0 {
		discount = pricing.Total * pay.VoucherDiscount / 100
	}

	usage := model.VoucherUsage{
		VoucherID:      voucher.ID,
		UserID:         user.ID,
		UserEmail:      user.Email,
		OrderID:        order.ID,
		DiscountAmount: discount,
	}
	if err := r.Vouchers().CreateUsage(ctx, usage); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "failed to track voucher usage")
	}

	if err := r.Vouchers().IncrementUsedCount(ctx, voucher.ID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "failed to track voucher usage")
	}

	return nil
}

// fullNameを先頭＋残りで分ける。空ならカード設定の名前を使う
func (u *OrderUsecase) buildUser(in ProcessOrderInput) model.User {
	firstName := in.CardConfig.FirstName
	lastName := in.CardConfig.LastName

	if parts := strings.Fields(in.CheckoutData.FullName); len(parts) > 0 {
		firstName = parts[0]
		if len(parts) > 1 {
			lastName = strings.Join(parts[1:], " ")
		}
	}

	now := u.clock.Now()
	return model.User{
		ID:          u.idGen.NewID(),
		Email:       in.CheckoutData.Email,
		FirstName:   firstName,
		LastName:    lastName,
		PhoneNumber: in.CheckoutData.PhoneNumber,
		Role:        model.RoleUser,

		//チェックアウトを完了した＝email確認済み扱い
		EmailVerified:  true,
		MobileVerified: in.CheckoutData.PhoneNumber != "",

		CreatedAt: now,
		UpdatedAt: now,
	}
}

func currencyForCountry(country string) string {
	if country == "IN" || country == "India" {
		return "INR"
	}
	return "USD"
}

// メール送信用の形に整形する
func FormatOrderForEmail(o model.Order) OrderEmailData {
	return OrderEmailData{
		OrderNumber:       o.OrderNumber,
		CustomerName:      o.CustomerName,
		Email:             o.Email,
		CardConfig:        o.CardConfig,
		Pricing:           o.Pricing,
		Shipping:          o.Shipping,
		EstimatedDelivery: o.EstimatedDelivery,
	}
}
