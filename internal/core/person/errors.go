package person

import "errors"

var (
	// ErrPersonNotFound は従業員が存在しない場合に返却されます。
	ErrPersonNotFound = errors.New("person not found")
	// ErrPersonAlreadyExists はユーザー名またはメールアドレス重複時に返却されます。
	ErrPersonAlreadyExists = errors.New("username or email already exists")
	// ErrInvalidID は ID が UUID 形式でない場合に返却されます。
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidUsername はユーザー名が不正な場合に返却されます。
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidEmail はメールアドレスが不正な場合に返却されます。
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidPassword はパスワードが要件を満たさない場合に返却されます。
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidRole はロールが不正な場合に返却されます。
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidPageSize は一覧取得時のページサイズが不正な場合に返却されます。
	ErrInvalidPageSize = errors.New("invalid page size")
	// ErrInvalidPageToken は一覧取得時のページトークンが不正な場合に返却されます。
	ErrInvalidPageToken = errors.New("invalid page token")
)
