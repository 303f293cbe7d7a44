package usecase

import (
	"context"
	"crypto/rand"
	"fmt"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// プラン種別ごとの注文番号プレフィックス
var orderNumberPrefixes = map[model.OrderPlanType]string{
	model.PlanDigitalOnly:       "DGT",
	model.PlanDigitalProfileApp: "DPA",
	model.PlanNFCCardFull:       "NFC",
}

// 例: NFC-20250901-7F3A2C
func (u *OrderUsecase) generateOrderNumber(ctx context.Context, orders repo.OrderRepository, planType model.OrderPlanType) (string, error) {
	prefix, ok := orderNumberPrefixes[planType]
	if !ok {
		prefix = "NFC"
	}

	datePart := u.clock.Now().Format("20060102")

	//衝突したら引き直す
	for attempt := 0; attempt < 5; attempt++ {
		suffix, err := randomSuffix()
		if err != nil {
			return "", err
		}

		candidate := fmt.Sprintf("%s-%s-%s", prefix, datePart, suffix)

		exists, err := orders.ExistsByOrderNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	//5回被るのは異常なので時刻で一意にする
	return fmt.Sprintf("%s-%s-%d", prefix, datePart, u.clock.Now().UnixNano()), nil
}

func randomSuffix() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%02X%02X%02X", b[0], b[1], b[2]), nil
}
