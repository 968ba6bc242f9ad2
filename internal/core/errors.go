package core

import "errors"

var (
	// ErrAlreadyAdmitted is returned when a connection is admitted twice.
	ErrAlreadyAdmitted = errors.New("connection already admitted")
	// ErrNotFound is returned when a connection has no session.
	ErrNotFound = errors.New("session not found")
	// ErrNicknameTaken is returned when another session already holds the nickname.
	ErrNicknameTaken = errors.New("nickname taken")
	// ErrNicknameSet is returned when a session tries to claim a second nickname.
	ErrNicknameSet = errors.New("nickname already set")
	// ErrWrongPassword is returned on a failed admin elevation.
	ErrWrongPassword = errors.New("wrong password")
)
