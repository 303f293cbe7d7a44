package handler

import (
	"errors"
	"net/http"
	"net/url"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// プロフィールの保存・取得・公開ページ
type ProfileHandler struct {
	uc    *usecase.ProfileUsecase
	users repository.UserRepository
}

func NewProfileHandler(uc *usecase.ProfileUsecase, users repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{uc: uc, users: users}
}

func (h *ProfileHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.POST("/api/profiles/save", h.save)
	e.GET("/api/profiles/save", h.getByEmail)
	e.GET("/api/profiles/get", h.getByEmail)
	e.GET("/api/p/:customUrl", h.public)

	//ログイン中ユーザーの確認（dashboard用）
	g := e.Group("/api/me")
	g.Use(middleware.Session(cfg.JWTSecret))
	g.GET("", h.me)
}

// 保存リクエスト。表示フラグのdefaultはtrue側が多いのでpointerで受ける
type saveProfileRequest struct {
	Email           string  `json:"email"`
	UserID          *string `json:"user_id"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	MobileNumber    string  `json:"mobileNumber"`
	CompanyName     string  `json:"companyName"`
	IsFounderMember bool    `json:"isFounderMember"`
	ProfilePhoto    string  `json:"profilePhoto"`

	//基本情報
	SecondaryEmail             string `json:"secondaryEmail"`
	WhatsappNumber             string `json:"whatsappNumber"`
	ShowEmailPublicly          *bool  `json:"showEmailPublicly"`
	ShowSecondaryEmailPublicly *bool  `json:"showSecondaryEmailPublicly"`
	ShowMobilePublicly         *bool  `json:"showMobilePublicly"`
	ShowWhatsappPublicly       *bool  `json:"showWhatsappPublicly"`

	//職業情報
	JobTitle            string   `json:"jobTitle"`
	CompanyWebsite      string   `json:"companyWebsite"`
	CompanyAddress      string   `json:"companyAddress"`
	CompanyLogo         string   `json:"companyLogo"`
	Industry            string   `json:"industry"`
	SubDomain           string   `json:"subDomain"`
	Skills              []string `json:"skills"`
	ProfessionalSummary string   `json:"professionalSummary"`
	ShowJobTitle        *bool    `json:"showJobTitle"`
	ShowCompanyName     *bool    `json:"showCompanyName"`
	ShowCompanyWebsite  *bool    `json:"showCompanyWebsite"`
	ShowCompanyAddress  *bool    `json:"showCompanyAddress"`
	ShowIndustry        *bool    `json:"showIndustry"`
	ShowSkills          *bool    `json:"showSkills"`

	//SNSリンク
	LinkedinURL   string `json:"linkedinUrl"`
	InstagramURL  string `json:"instagramUrl"`
	FacebookURL   string `json:"facebookUrl"`
	TwitterURL    string `json:"twitterUrl"`
	BehanceURL    string `json:"behanceUrl"`
	DribbbleURL   string `json:"dribbbleUrl"`
	GithubURL     string `json:"githubUrl"`
	YoutubeURL    string `json:"youtubeUrl"`
	ShowLinkedin  *bool  `json:"showLinkedin"`
	ShowInstagram *bool  `json:"showInstagram"`
	ShowFacebook  *bool  `json:"showFacebook"`
	ShowTwitter   *bool  `json:"showTwitter"`
	ShowBehance   *bool  `json:"showBehance"`
	ShowDribbble  *bool  `json:"showDribbble"`
	ShowGithub    *bool  `json:"showGithub"`
	ShowYoutube   *bool  `json:"showYoutube"`

	//写真・背景
	BackgroundImage     string `json:"backgroundImage"`
	ShowProfilePhoto    *bool  `json:"showProfilePhoto"`
	ShowBackgroundImage *bool  `json:"showBackgroundImage"`

	//メディア・証明書
	Photos         []string         `json:"photos"`
	Videos         []string         `json:"videos"`
	Certifications []map[string]any `json:"certifications"`

	Services []usecase.ServiceInput `json:"services"`
}

type saveProfileResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Profile usecase.ProfileSummary `json:"profile"`
}

type profileErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeProfileError(c echo.Context, err error) error {
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, profileErrorResponse{Success: false, Error: he.Message})
	}
	return c.JSON(http.StatusInternalServerError, profileErrorResponse{Success: false, Error: "Failed to save profile"})
}

func (h *ProfileHandler) save(c echo.Context) error {
	var req saveProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, profileErrorResponse{Success: false, Error: "invalid body"})
	}

	out, err := h.uc.SaveProfile(c.Request().Context(), usecase.SaveProfileInput{
		Email:           req.Email,
		UserID:          req.UserID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		MobileNumber:    req.MobileNumber,
		CompanyName:     req.CompanyName,
		IsFounderMember: req.IsFounderMember,
		ProfilePhoto:    req.ProfilePhoto,
		BaseURL:         requestBaseURL(c),
		Preferences:     buildPreferences(req),
		Services:        req.Services,
	})
	if err != nil {
		return writeProfileError(c, err)
	}

	return c.JSON(http.StatusOK, saveProfileResponse{
		Success: true,
		Message: "Profile saved successfully",
		Profile: out,
	})
}

func (h *ProfileHandler) getByEmail(c echo.Context) error {
	email := c.QueryParam("email")

	profile, services, err := h.uc.GetProfileByEmail(c.Request().Context(), email)
	if errors.Is(err, repository.ErrNotFound) {
		//not-foundはエラーにしない（フロントが初回判定に使う）
		return c.JSON(http.StatusOK, map[string]any{
			"success": false,
			"error":   "Profile not found",
			"profile": nil,
		})
	}
	if err != nil {
		return writeProfileError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"profile":  profile,
		"services": services,
	})
}

func (h *ProfileHandler) public(c echo.Context) error {
	profile, services, err := h.uc.GetPublicProfile(c.Request().Context(), c.Param("customUrl"))
	if err != nil {
		return writeProfileError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"profile":  profile,
		"services": services,
	})
}

func (h *ProfileHandler) me(c echo.Context) error {
	email, _ := c.Get(middleware.CtxUserEmailKey).(string)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	user, err := h.users.FindByEmail(c.Request().Context(), email)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "db error"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// Origin→Refererの順で公開URLのベースを取る
func requestBaseURL(c echo.Context) string {
	origin := c.Request().Header.Get("Origin")
	if origin == "" {
		origin = c.Request().Header.Get("Referer")
	}
	if origin == "" {
		return ""
	}

	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// pointer boolのdefaultを埋めつつpreferences blobを組み立てる
func buildPreferences(req saveProfileRequest) map[string]any {
	return map[string]any{
		//基本情報
		"secondaryEmail":             req.SecondaryEmail,
		"whatsappNumber":             req.WhatsappNumber,
		"showEmailPublicly":          boolOr(req.ShowEmailPublicly, true),
		"showSecondaryEmailPublicly": boolOr(req.ShowSecondaryEmailPublicly, true),
		"showMobilePublicly":         boolOr(req.ShowMobilePublicly, true),
		"showWhatsappPublicly":       boolOr(req.ShowWhatsappPublicly, false),

		//職業情報
		"jobTitle":            req.JobTitle,
		"companyWebsite":      req.CompanyWebsite,
		"companyAddress":      req.CompanyAddress,
		"companyLogo":         req.CompanyLogo,
		"industry":            req.Industry,
		"subDomain":           req.SubDomain,
		"skills":              sliceOr(req.Skills),
		"professionalSummary": req.ProfessionalSummary,
		"showJobTitle":        boolOr(req.ShowJobTitle, true),
		"showCompanyName":     boolOr(req.ShowCompanyName, true),
		"showCompanyWebsite":  boolOr(req.ShowCompanyWebsite, true),
		"showCompanyAddress":  boolOr(req.ShowCompanyAddress, true),
		"showIndustry":        boolOr(req.ShowIndustry, true),
		"showSkills":          boolOr(req.ShowSkills, true),

		//SNSリンク
		"linkedinUrl":   req.LinkedinURL,
		"instagramUrl":  req.InstagramURL,
		"facebookUrl":   req.FacebookURL,
		"twitterUrl":    req.TwitterURL,
		"behanceUrl":    req.BehanceURL,
		"dribbbleUrl":   req.DribbbleURL,
		"githubUrl":     req.GithubURL,
		"youtubeUrl":    req.YoutubeURL,
		"showLinkedin":  boolOr(req.ShowLinkedin, false),
		"showInstagram": boolOr(req.ShowInstagram, false),
		"showFacebook":  boolOr(req.ShowFacebook, false),
		"showTwitter":   boolOr(req.ShowTwitter, false),
		"showBehance":   boolOr(req.ShowBehance, false),
		"showDribbble":  boolOr(req.ShowDribbble, false),
		"showGithub":    boolOr(req.ShowGithub, false),
		"showYoutube":   boolOr(req.ShowYoutube, false),

		//写真・背景
		"backgroundImage":     req.BackgroundImage,
		"showProfilePhoto":    boolOr(req.ShowProfilePhoto, true),
		"showBackgroundImage": boolOr(req.ShowBackgroundImage, true),

		//メディア・証明書
		"photos":         sliceOr(req.Photos),
		"videos":         sliceOr(req.Videos),
		"certifications": certsOr(req.Certifications),
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func sliceOr(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func certsOr(v []map[string]any) []map[string]any {
	if v == nil {
		return []map[string]any{}
	}
	return v
}
