package project

import "context"

// Repository はプロジェクト永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, p *Project) (*Project, error)
	FindByID(ctx context.Context, id string) (*Project, error)
}
