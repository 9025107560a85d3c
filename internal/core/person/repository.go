package person

import "context"

// Repository は従業員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, p *Person) (*Person, error)
	FindByID(ctx context.Context, id string) (*Person, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*Person, error)
	List(ctx context.Context, filter ListPeopleFilter) ([]*Person, string, error)
}

// ListPeopleFilter は一覧取得用フィルタです。
type ListPeopleFilter struct {
	Role   *Role
	Limit  int
	Offset int
}
