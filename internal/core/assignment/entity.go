package assignment

import (
	"time"

	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
)

// Assignment はプロジェクトへの配属エンティティです。
// 期間は閉区間 [StartDate, EndDate]（両端を含む）で、同一人物の配属期間は互いに重なりません。
type Assignment struct {
	ID        string
	PersonID  string
	ProjectID string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	Person    *PersonSnapshot
	Project   *ProjectSnapshot
}

// PersonSnapshot は配属作成時点の従業員情報です。後続の Person 更新は反映されません。
type PersonSnapshot struct {
	ID       string
	Username string
	Email    string
	Role     person.Role
}

// ProjectSnapshot は配属作成時点のプロジェクト情報です。後続の Project 更新は反映されません。
type ProjectSnapshot struct {
	ID                  string
	Name                string
	ReferringEmployeeID string
}

// Summary は一覧取得用の射影です。
type Summary struct {
	ID                  string
	ProjectName         string
	ReferringEmployeeID string
}

// Overlaps は2つの閉区間 [s1,e1] と [s2,e2] が重なるかどうかを返します。
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !e1.Before(s2)
}
