package users

import "errors"

// ErrUserAlreadyExists is returned when creating a user whose ID or email is taken
var ErrUserAlreadyExists = errors.New("user already exists")
