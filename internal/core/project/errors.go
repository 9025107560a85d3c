package project

import "errors"

var (
	// ErrUnauthorized はアクター不在または権限不足の場合に返却されます。
	ErrUnauthorized = errors.New("project: unauthorized")
	// ErrProjectNotFound はプロジェクトが存在しない場合に返却されます。
	ErrProjectNotFound = errors.New("project not found")
	// ErrReferentNotFound はリファレントに指定された従業員が存在しない場合に返却されます。
	ErrReferentNotFound = errors.New("referring employee not found")
	// ErrInvalidReferentRole はリファレントのロールが Admin / ProjectManager 以外の場合に返却されます。
	ErrInvalidReferentRole = errors.New("referring employee must be a manager or admin")
	// ErrInvalidName はプロジェクト名が不正な場合に返却されます。
	ErrInvalidName = errors.New("invalid project name")
	// ErrInvalidID は ID が UUID 形式でない場合に返却されます。
	ErrInvalidID = errors.New("invalid id")
)
