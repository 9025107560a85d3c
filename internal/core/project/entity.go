package project

import (
	"time"

	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
)

// Project はプロジェクトエンティティです。ReferringEmployee がプロジェクトの責任者になります。
type Project struct {
	ID                  string
	Name                string
	ReferringEmployeeID string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ReferringEmployee   *ReferentSnapshot
}

// ReferentSnapshot は作成時点のリファレント情報です。
// 後から Person が更新されてもこの値には反映されません。
type ReferentSnapshot struct {
	ID       string
	Username string
	Email    string
	Role     person.Role
}
