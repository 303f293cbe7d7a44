package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/mail"
	infraRepo "app/internal/infra/repository"
	"app/internal/infra/sms"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// セッションJWT（モバイル認証完了後に発行）
type jwtIssuer struct {
	secret     []byte
	sessionTTL time.Duration
}

func (i *jwtIssuer) Issue(userID string, email string, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.sessionTTL)

	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envが無ければ環境変数だけで動かす
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Order{},
		&model.Payment{},
		&model.Voucher{},
		&model.VoucherUsage{},
		&model.ShippingAddress{},
		&model.MobileOTP{},
		&model.Profile{},
		&model.ProfileService{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	otpRepo := infraRepo.NewOTPGormRepository(gormDB)
	profileRepo := infraRepo.NewProfileGormRepository(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	appLog := log.New("app")

	//bcrypt（OTPコードのハッシュ化）
	hasher := usecase.NewBcryptCodeHasher(10)

	//セッションJWT issuer（7日）
	issuer := &jwtIssuer{
		secret:     []byte(cfg.JWTSecret),
		sessionTTL: 7 * 24 * time.Hour,
	}

	//外部サービス
	verifier := sms.NewTwilioVerifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioVerifyServiceSID)
	mailer := mail.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, mailer, idGen, clock, appLog)
	otpUC := usecase.NewOTPUsecase(userRepo, otpRepo, verifier, issuer, hasher, clock, appLog, cfg.HardcodedOTP)
	profileUC := usecase.NewProfileUsecase(profileRepo, idGen, clock, appLog, cfg.SiteURL)

	//Handler生成
	orderH := handler.NewOrderHandler(orderUC)
	otpH := handler.NewOTPHandler(otpUC)
	profileH := handler.NewProfileHandler(profileUC, userRepo)

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	e := server.New(cfg, rdb, orderH, otpH, profileH)
	if err := server.Start(e, addr); err != nil {
		panic(err)
	}
}
