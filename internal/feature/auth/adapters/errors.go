// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation はPostgreSQLの一意制約違反のエラーコードです。
const pgUniqueViolation = "23505"

// isDuplicateKey はerrが一意制約違反かどうかを判定します。
// TranslateErrorが有効ならgorm.ErrDuplicatedKeyに変換済みですが、
// 無効な接続でもドライバーのエラーから判定できるようにしています。
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	// SQLite: "UNIQUE constraint failed: users.email"
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
