package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// SMS確認サービス（Twilio Verify）の窓口。
// 未設定ならEnabledがfalseになり、DB保存コードで検証する。
type MobileVerifier interface {
	Enabled() bool
	StartVerification(ctx context.Context, mobile string) error
	CheckVerification(ctx context.Context, mobile string, code string) (bool, error)
}

// 認証済みユーザーのセッショントークンを発行する約束
type SessionIssuer interface {
	Issue(userID string, email string, role model.Role, now time.Time) (string, time.Time, error)
}

// 確認コードのハッシュ化と照合
type CodeHasher interface {
	Hash(plain string) (string, error)
	Verify(plain string, hashed string) bool
}

const otpTTL = 10 * time.Minute

type OTPUsecase struct {
	users    repo.UserRepository
	otps     repo.OTPRepository
	verifier MobileVerifier
	issuer   SessionIssuer
	hasher   CodeHasher
	clock    Clock
	log      Logger

	//テスト用の固定OTP（envで有効化した時だけ使う）
	hardcodedOTP string
}

func NewOTPUsecase(
	users repo.UserRepository,
	otps repo.OTPRepository,
	verifier MobileVerifier,
	issuer SessionIssuer,
	hasher CodeHasher,
	clock Clock,
	log Logger,
	hardcodedOTP string,
) *OTPUsecase {
	return &OTPUsecase{
		users:        users,
		otps:         otps,
		verifier:     verifier,
		issuer:       issuer,
		hasher:       hasher,
		clock:        clock,
		log:          log,
		hardcodedOTP: hardcodedOTP,
	}
}

// SendMobileOTPは確認コードを送る。
// Twilioが使えるならVerify APIへ、使えないならコードを作ってDBに保存する。
func (u *OTPUsecase) SendMobileOTP(ctx context.Context, mobile string) error {
	if mobile == "" {
		return NewHTTPError(http.StatusBadRequest, "Mobile number is required")
	}

	if u.verifier.Enabled() {
		if err := u.verifier.StartVerification(ctx, mobile); err != nil {
			u.log.Errorf("twilio verification start failed for %s: %v", mobile, err)
			return NewHTTPError(http.StatusInternalServerError, "Failed to send verification code")
		}
		return nil
	}

	//開発モード: 6桁コードをハッシュ化して保存
	code, err := sixDigitCode()
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Failed to send verification code")
	}

	hash, err := u.hasher.Hash(code)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Failed to send verification code")
	}

	now := u.clock.Now()
	otp := model.MobileOTP{
		Mobile:    mobile,
		CodeHash:  hash,
		ExpiresAt: now.Add(otpTTL),
		Verified:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.otps.Set(ctx, otp); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Failed to send verification code")
	}

	//SMSが飛ばないのでログで拾えるようにする
	u.log.Infof("mobile otp for %s: %s (expires in %s)", mobile, code, otpTTL)
	return nil
}

type VerifyOTPInput struct {
	Mobile string
	OTP    string

	//userEmail cookieの値（無ければ電話番号で引く）
	UserEmail string
}

type VerifyOTPOutput struct {
	Verified bool

	//ユーザーが特定できた時だけ入る
	SessionToken   string
	SessionExpires time.Time
}

// VerifyMobileOTPはコードを検証して、ユーザーが特定できれば
// mobile_verifiedを立ててセッションを発行する。
func (u *OTPUsecase) VerifyMobileOTP(ctx context.Context, in VerifyOTPInput) (VerifyOTPOutput, error) {
	var out VerifyOTPOutput

	if in.Mobile == "" || in.OTP == "" {
		return out, NewHTTPError(http.StatusBadRequest, "Mobile number and OTP are required")
	}

	if u.verifier.Enabled() {
		approved, err := u.verifier.CheckVerification(ctx, in.Mobile, in.OTP)
		if err == nil {
			if !approved {
				return out, NewHTTPError(http.StatusBadRequest, "Invalid verification code. Please try again.")
			}
			return u.completeVerification(ctx, in)
		}
		//Twilio側のエラーはDB保存コードにフォールバック
		u.log.Errorf("twilio verification check failed for %s: %v", in.Mobile, err)
	}

	if err := u.checkStoredCode(ctx, in.Mobile, in.OTP); err != nil {
		return out, err
	}

	return u.completeVerification(ctx, in)
}

func (u *OTPUsecase) checkStoredCode(ctx context.Context, mobile string, otp string) error {
	//テスト用固定OTPならDBを見ない
	if u.hardcodedOTP != "" && otp == u.hardcodedOTP {
		u.log.Infof("hardcoded test otp accepted for %s", mobile)
		return nil
	}

	stored, err := u.otps.Get(ctx, mobile)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusBadRequest, "No verification code found for this mobile number. Please request a new code.")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Failed to verify code. Please try again.")
	}

	//期限切れは消してから断る
	if u.clock.Now().After(stored.ExpiresAt) {
		_ = u.otps.Delete(ctx, mobile)
		return NewHTTPError(http.StatusBadRequest, "Verification code has expired. Please request a new code.")
	}

	if !u.hasher.Verify(otp, stored.CodeHash) {
		return NewHTTPError(http.StatusBadRequest, "Invalid verification code. Please check and try again.")
	}

	stored.Verified = true
	stored.UpdatedAt = u.clock.Now()
	if err := u.otps.Set(ctx, stored); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Failed to verify code")
	}

	return nil
}

// cookieのemail→電話番号の順でユーザーを探す
func (u *OTPUsecase) completeVerification(ctx context.Context, in VerifyOTPInput) (VerifyOTPOutput, error) {
	out := VerifyOTPOutput{Verified: true}

	var user model.User
	found := false

	if in.UserEmail != "" {
		if byEmail, err := u.users.FindByEmail(ctx, in.UserEmail); err == nil {
			user = byEmail
			found = true
		}
	}
	if !found {
		if byPhone, err := u.users.FindByPhone(ctx, in.Mobile); err == nil {
			user = byPhone
			found = true
		}
	}

	//ユーザーがまだ居なくても検証自体は成功
	if !found {
		return out, nil
	}

	if err := u.users.MarkMobileVerified(ctx, user.ID, in.Mobile); err != nil {
		return VerifyOTPOutput{}, NewHTTPError(http.StatusInternalServerError, "Failed to verify code")
	}

	token, expires, err := u.issuer.Issue(user.ID, user.Email, user.Role, u.clock.Now())
	if err != nil {
		return VerifyOTPOutput{}, NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	out.SessionToken = token
	out.SessionExpires = expires
	return out, nil
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
