package handler

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
)

// actorIDHeader は呼び出し元の従業員 ID を運ぶメタデータキーです。
const actorIDHeader = "x-actor-id"

// PersonFinder はアクター解決に必要な従業員参照です。
type PersonFinder interface {
	FindByID(ctx context.Context, id string) (*person.Person, error)
}

// ActorResolver はリクエストメタデータからアクターを解決します。
// ヘッダーが無い場合や未知の ID の場合は nil を返し、
// 権限判定はユースケース側に委ねます。
type ActorResolver struct {
	people PersonFinder
}

// NewActorResolver は ActorResolver を生成します。
func NewActorResolver(people PersonFinder) *ActorResolver {
	return &ActorResolver{people: people}
}

// Resolve はコンテキストからアクターを解決します。
func (r *ActorResolver) Resolve(ctx context.Context) (*person.Person, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, nil
	}

	values := md.Get(actorIDHeader)
	if len(values) == 0 || values[0] == "" {
		return nil, nil
	}

	if _, err := uuid.Parse(values[0]); err != nil {
		return nil, nil
	}

	actor, err := r.people.FindByID(ctx, values[0])
	if err != nil {
		if errors.Is(err, person.ErrPersonNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return actor, nil
}
