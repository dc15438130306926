// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"account_backend/internal/api"
)

// Pinger はデータベースの疎通確認を行います（*sql.DBが満たします）。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler は /healthz エンドポイントを処理します。
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthHandler はHealthHandlerを生成します。dbがnilの場合はDB確認を省略します。
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

// Health はサービスヘルスチェックを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// DBに到達できない場合は503を返します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	status, body := http.StatusOK, api.HealthResponse{Status: "ok", Database: "ok"}
	if h.db == nil {
		body.Database = "skipped"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			slog.Error("health check: database unreachable", "error", err)
			status, body = http.StatusServiceUnavailable, api.HealthResponse{Status: "degraded", Database: "unreachable"}
		}
	}

	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}
	c.JSON(status, body)
}
