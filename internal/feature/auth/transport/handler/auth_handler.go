// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/oapi-codegen/runtime"

	"account_backend/internal/api"
	"account_backend/internal/feature/auth/domain/entity"
	"account_backend/internal/feature/auth/transport/http/dto"
	"account_backend/internal/feature/auth/usecase"
	jwtmw "account_backend/internal/platform/jwt"
)

// AuthUsecase は登録・有効化・ログインのユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は未有効化ユーザーを作成し、有効化コードを送信します。
	Register(ctx context.Context, email, password string) (*entity.User, error)
	// Activate は有効化コードを検証し、ユーザーを有効化します。
	Activate(ctx context.Context, email, code string) error
	// Login はユーザーを認証し、成功時にアクセストークンを返します。
	Login(ctx context.Context, email, password string) (string, error)
	// Identify はトークンに対応する有効化済みユーザーを返します。
	Identify(ctx context.Context, token string) (*entity.User, error)
}

// AuthHandler は/users配下のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをRegisterReqにバインド
// - バリデーションエラー時は400を返却
// - メール重複時は409を返却
// - 成功時は200とユーザー情報を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		respondError(c, http.StatusBadRequest, api.CodeValidation, "invalid request")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.EmailAddress, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			// 実際のエラーは公開しない
			slog.Warn("register failed", "error", err, "email", req.EmailAddress, "remote_addr", c.ClientIP())
			respondError(c, http.StatusConflict, api.CodeSignupFailed, "signup failed")
		case errors.Is(err, usecase.ErrValidation):
			slog.Warn("register rejected", "error", err, "remote_addr", c.ClientIP())
			respondError(c, http.StatusBadRequest, api.CodeValidation, "invalid request")
		default:
			internalError(c, "register", err)
		}
		return
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, toUserResponse(user))
}

// Activate は有効化APIエンドポイントを処理します。
// email_strとactivation_codeはクエリまたはフォームで受け付けます。
// 成功時は204を返却します。
func (h *AuthHandler) Activate(c *gin.Context) {
	params, err := bindActivateParams(c.Request)
	if err != nil {
		slog.Warn("activate validation failed", "error", err, "remote_addr", c.ClientIP())
		respondError(c, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	err = h.auth.Activate(c.Request.Context(), params.EmailStr, params.ActivationCode)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAlreadyActive):
			respondError(c, http.StatusConflict, api.CodeAlreadyActive, "user is already active")
		case errors.Is(err, usecase.ErrCodeExpired):
			respondError(c, http.StatusConflict, api.CodeCodeExpired, "activation code expired, a new code has been sent")
		case errors.Is(err, usecase.ErrCodeMismatch):
			respondError(c, http.StatusConflict, api.CodeCodeMismatch, "wrong activation code")
		case errors.Is(err, usecase.ErrUserNotFound), errors.Is(err, usecase.ErrActivationNotFound):
			respondError(c, http.StatusNotFound, api.CodeNotFound, "user not found")
		case errors.Is(err, usecase.ErrValidation):
			respondError(c, http.StatusBadRequest, api.CodeValidation, "invalid request")
		default:
			internalError(c, "activate", err)
			return
		}
		slog.Warn("activation failed", "error", err, "email", params.EmailStr, "remote_addr", c.ClientIP())
		return
	}

	slog.Info("user activated", "email", params.EmailStr, "remote_addr", c.ClientIP())
	c.Status(http.StatusNoContent)
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - username/passwordのフォームをLoginFormにバインド
// - バリデーションエラー時は400を返却
// - 認証失敗時はWWW-Authenticate付きで401を返却
// - 認証成功時はbearerトークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		respondError(c, http.StatusBadRequest, api.CodeValidation, "invalid request")
		return
	}

	token, err := h.auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrUnauthorized) {
			// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
			slog.Warn("login failed", "email", form.Username, "remote_addr", c.ClientIP())
			jwtmw.Unauthorized(c, "incorrect username or password")
			return
		}
		internalError(c, "login", err)
		return
	}

	slog.Info("user login successful", "email", form.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me は認証済みユーザー自身の情報を返します。
// jwtmw.AuthRequiredの後段で使用します。
func (h *AuthHandler) Me(c *gin.Context) {
	token := c.GetString(jwtmw.ContextToken)
	user, err := h.auth.Identify(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, usecase.ErrUnauthorized) {
			slog.Warn("identify failed", "error", err, "remote_addr", c.ClientIP())
			jwtmw.Unauthorized(c, "could not validate credentials")
			return
		}
		internalError(c, "me", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// bindActivateParams はクエリとフォームの両方からパラメータを読み取ります。
// 同じキーが複数回指定された場合はエラーになります。
func bindActivateParams(r *http.Request) (api.ActivateUserParams, error) {
	var p api.ActivateUserParams
	if err := r.ParseForm(); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, true, "email_str", r.Form, &p.EmailStr); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, true, "activation_code", r.Form, &p.ActivationCode); err != nil {
		return p, err
	}
	return p, nil
}

func toUserResponse(u *entity.User) api.UserResponse {
	return api.UserResponse{ID: u.ID, EmailAddress: u.Email}
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, api.ErrorResponse{Code: code, Error: msg})
}

// internalError は内部エラーをログに記録し、詳細を含まない500を返します。
func internalError(c *gin.Context, op string, err error) {
	slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
	respondError(c, http.StatusInternalServerError, api.CodeInternal, "internal server error")
}
