package person

import "time"

// Role は従業員の権限区分を表します。定義済みの3値以外は存在しません。
type Role string

const (
	RoleEmployee       Role = "Employee"
	RoleAdmin          Role = "Admin"
	RoleProjectManager Role = "ProjectManager"
)

// Valid は定義済みのロールかどうかを返します。
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleAdmin, RoleProjectManager:
		return true
	default:
		return false
	}
}

// Person は従業員エンティティです。操作の実行主体（認証済みアクター）としても使われます。
type Person struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile は外部へ返却する公開プロフィールです。パスワード情報は含みません。
type Profile struct {
	ID        string
	Username  string
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile は公開プロフィールへの射影を返します。
func (p *Person) Profile() *Profile {
	if p == nil {
		return nil
	}
	return &Profile{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
