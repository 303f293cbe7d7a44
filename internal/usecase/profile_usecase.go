package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProfileUsecase struct {
	profiles repo.ProfileRepository
	idGen    IDGenerator
	clock    Clock
	log      Logger

	//originが取れない時の公開URLのベース
	siteURL string
}

func NewProfileUsecase(
	profiles repo.ProfileRepository,
	idGen IDGenerator,
	clock Clock,
	log Logger,
	siteURL string,
) *ProfileUsecase {
	return &ProfileUsecase{
		profiles: profiles,
		idGen:    idGen,
		clock:    clock,
		log:      log,
		siteURL:  siteURL,
	}
}

type ServiceInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Pricing      string `json:"pricing"`
	Category     string `json:"category"`
	ShowPublicly *bool  `json:"showPublicly"`
}

type SaveProfileInput struct {
	Email           string
	UserID          *string
	FirstName       string
	LastName        string
	MobileNumber    string
	CompanyName     string
	IsFounderMember bool
	ProfilePhoto    string

	//リクエストのOrigin/Referer（公開URLの組み立てに使う）
	BaseURL string

	//表示フラグ・SNS・スキルなどをまとめたblob
	Preferences map[string]any

	Services []ServiceInput
}

// 保存レスポンス用の要約
type ProfileSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CustomURL string `json:"custom_url"`
}

// SaveProfileはemailでプロフィールをupsertする。
// claim済みのcustom_urlは保持し、新規なら名前から一意なスラッグを作る。
func (u *ProfileUsecase) SaveProfile(ctx context.Context, in SaveProfileInput) (ProfileSummary, error) {
	if in.Email == "" {
		return ProfileSummary{}, NewHTTPError(http.StatusBadRequest, "Email is required")
	}
	if in.FirstName == "" || in.LastName == "" {
		return ProfileSummary{}, NewHTTPError(http.StatusBadRequest, "First name and last name are required")
	}

	customURL, err := u.resolveCustomURL(ctx, in.Email, in.FirstName, in.LastName)
	if err != nil {
		return ProfileSummary{}, NewHTTPError(http.StatusInternalServerError, "Failed to save profile")
	}

	baseURL := strings.TrimRight(in.BaseURL, "/")
	if baseURL == "" {
		baseURL = strings.TrimRight(u.siteURL, "/")
	}

	now := u.clock.Now()
	profile := model.Profile{
		ID:              u.idGen.NewID(),
		Email:           in.Email,
		UserID:          in.UserID,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		PhoneNumber:     in.MobileNumber,
		Company:         in.CompanyName,
		IsFounderMember: in.IsFounderMember,
		AvatarURL:       in.ProfilePhoto,
		CustomURL:       customURL,
		ProfileURL:      baseURL + "/" + customURL,
		Preferences:     in.Preferences,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	saved, err := u.profiles.UpsertByEmail(ctx, profile)
	if err != nil {
		return ProfileSummary{}, NewHTTPError(http.StatusInternalServerError, "Failed to save profile")
	}

	//タイトルの無いサービスは保存しない
	services := make([]model.ProfileService, 0, len(in.Services))
	for i, s := range in.Services {
		if s.Title == "" {
			continue
		}
		active := true
		if s.ShowPublicly != nil {
			active = *s.ShowPublicly
		}
		services = append(services, model.ProfileService{
			ProfileID:    saved.ID,
			Title:        s.Title,
			Description:  s.Description,
			Pricing:      s.Pricing,
			Category:     s.Category,
			IsActive:     active,
			DisplayOrder: i,
		})
	}
	if err := u.profiles.ReplaceServices(ctx, saved.ID, services); err != nil {
		//サービスの保存失敗はプロフィール保存の成功を崩さない
		u.log.Errorf("failed to save services for profile %s: %v", saved.ID, err)
	}

	return ProfileSummary{
		ID:        saved.ID,
		Email:     saved.Email,
		FirstName: saved.FirstName,
		LastName:  saved.LastName,
		CustomURL: saved.CustomURL,
	}, nil
}

// claim済みURLを優先し、無ければ名前から一意なスラッグを作る
func (u *ProfileUsecase) resolveCustomURL(ctx context.Context, email, firstName, lastName string) (string, error) {
	existing, err := u.profiles.FindByEmail(ctx, email)
	if err == nil && existing.CustomURL != "" {
		return existing.CustomURL, nil
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return "", err
	}

	slug := slugify(firstName + "-" + lastName)

	owner, taken, err := u.profiles.FindEmailByCustomURL(ctx, slug)
	if err != nil {
		return "", err
	}
	if !taken || owner == email {
		return slug, nil
	}

	//他人が使っていたら -N を付けて空きを探す
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s-%d", slug, counter)
		_, taken, err := u.profiles.FindEmailByCustomURL(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// 小文字・空白はハイフン・英数とハイフン以外は落とす
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")

	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GetProfileByEmailはプロフィールとサービス一覧を返す
func (u *ProfileUsecase) GetProfileByEmail(ctx context.Context, email string) (model.Profile, []model.ProfileService, error) {
	if email == "" {
		return model.Profile{}, nil, NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	profile, err := u.profiles.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Profile{}, nil, err
	}
	if err != nil {
		return model.Profile{}, nil, NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}

	services, err := u.profiles.ListServices(ctx, profile.ID)
	if err != nil {
		return model.Profile{}, nil, NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}

	return profile, services, nil
}

// 公開ページ用。custom_urlで引く
func (u *ProfileUsecase) GetPublicProfile(ctx context.Context, customURL string) (model.Profile, []model.ProfileService, error) {
	if customURL == "" {
		return model.Profile{}, nil, NewHTTPError(http.StatusBadRequest, "invalid url")
	}

	profile, err := u.profiles.FindByCustomURL(ctx, customURL)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Profile{}, nil, NewHTTPError(http.StatusNotFound, "Profile not found")
	}
	if err != nil {
		return model.Profile{}, nil, NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}

	services, err := u.profiles.ListServices(ctx, profile.ID)
	if err != nil {
		return model.Profile{}, nil, NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}

	return profile, services, nil
}
