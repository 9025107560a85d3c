package absence

import "errors"

var (
	// ErrUnauthorized はアクター不在または権限不足の場合に返却されます。
	ErrUnauthorized = errors.New("absence: unauthorized")
	// ErrEventNotFound はイベントが存在しない場合に返却されます。
	ErrEventNotFound = errors.New("absence event not found")
	// ErrDuplicateDay は同一人物が同じ日に既にイベントを持つ場合に返却されます。
	ErrDuplicateDay = errors.New("an event already exists for the same day")
	// ErrWeeklyRemoteCap は同一週の RemoteWork イベントが上限に達している場合に返却されます。
	ErrWeeklyRemoteCap = errors.New("cannot have more than two remote work events in the same week")
	// ErrAlreadyDecided は承認済み・却下済みイベントへの再決定時に返却されます。
	ErrAlreadyDecided = errors.New("event already accepted or declined")
	// ErrNotAttached は対象者がイベント当日にどのプロジェクトにも配属されていない場合に返却されます。
	ErrNotAttached = errors.New("person not attached to a project on the event date")
	// ErrNotReferent はアクターがイベント当日の配属先プロジェクトのリファレントでない場合に返却されます。
	ErrNotReferent = errors.New("actor is not a referent for the person's project on the event date")
	// ErrInvalidID は ID が UUID 形式でない場合に返却されます。
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidDate は日付が不正な場合に返却されます。
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidEventType はイベント種別が不正な場合に返却されます。
	ErrInvalidEventType = errors.New("invalid event type")
	// ErrInvalidMonth は月の指定が不正な場合に返却されます。
	ErrInvalidMonth = errors.New("invalid month")
)
