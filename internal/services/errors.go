package services

import "errors"

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user service: user not found")
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("user service: username already taken")
	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = errors.New("user service: invalid credentials")
	// ErrUserInactive indicates a disabled account attempted to sign in.
	ErrUserInactive = errors.New("user service: account disabled")

	// ErrTaskNotFound indicates the requested task does not exist.
	ErrTaskNotFound = errors.New("task service: task not found")
	// ErrTemplateNotFound indicates the requested template does not exist.
	ErrTemplateNotFound = errors.New("template service: template not found")
	// ErrTemplateNameTaken indicates a template with the same name exists.
	ErrTemplateNameTaken = errors.New("template service: name already in use")
	// ErrCommentNotFound indicates the requested comment does not exist.
	ErrCommentNotFound = errors.New("comment service: comment not found")
	// ErrNotificationNotFound indicates the requested notification does not exist.
	ErrNotificationNotFound = errors.New("notification service: notification not found")
)
