package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // セッションJWTの署名シークレット

	GoEnv   string // dev/prod
	SiteURL string // 公開プロフィールURLのベース（originが取れない時のfallback）

	// Twilio Verify（未設定ならDB保存コードにフォールバック）
	TwilioAccountSID       string
	TwilioAuthToken        string
	TwilioVerifyServiceSID string

	// Resend（未設定ならメール送信は失敗として記録される）
	ResendAPIKey string
	EmailFrom    string

	// Redis（未設定ならレート制限は無効）
	RedisAddr string

	// テスト用の固定OTP（USE_HARDCODED_OTP=true の時だけ有効）
	HardcodedOTP string
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv:   os.Getenv("GO_ENV"),
		SiteURL: os.Getenv("SITE_URL"),

		TwilioAccountSID:       os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:        os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioVerifyServiceSID: os.Getenv("TWILIO_VERIFY_SERVICE_SID"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    os.Getenv("EMAIL_FROM"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
	}

	if os.Getenv("USE_HARDCODED_OTP") == "true" {
		cfg.HardcodedOTP = os.Getenv("HARDCODED_OTP")
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}
	if cfg.SiteURL == "" {
		return Config{}, fmt.Errorf("SITE_URL is required")
	}
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = "orders@cardlink.local"
	}

	return cfg, nil
}
