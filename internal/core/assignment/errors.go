package assignment

import "errors"

var (
	// ErrUnauthorized はアクター不在または権限不足の場合に返却されます。
	ErrUnauthorized = errors.New("assignment: unauthorized")
	// ErrAssignmentNotFound は配属が存在しない場合に返却されます。
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrPersonNotFound は配属対象の従業員が存在しない場合に返却されます。
	ErrPersonNotFound = errors.New("assignment: person not found")
	// ErrProjectNotFound は配属先のプロジェクトが存在しない場合に返却されます。
	ErrProjectNotFound = errors.New("assignment: project not found")
	// ErrAssignmentOverlap は同一人物の既存配属と期間が重なる場合に返却されます。
	ErrAssignmentOverlap = errors.New("assignment overlaps an existing one for the same person")
	// ErrInvalidID は ID が UUID 形式でない場合に返却されます。
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidDate は日付が不正な場合に返却されます。
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidDateRange は開始日が終了日より後の場合に返却されます。
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)
