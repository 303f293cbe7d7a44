package usecase

import "golang.org/x/crypto/bcrypt"

// bcryptで確認コードをハッシュ化する
type BcryptCodeHasher struct {
	cost int
}

func NewBcryptCodeHasher(cost int) *BcryptCodeHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptCodeHasher{cost: cost}
}

func (h *BcryptCodeHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// 平文とbcryptハッシュを比較する
func (h *BcryptCodeHasher) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
