package engine

import "errors"

var (
	ErrSpriteNotFound  = errors.New("sprite not found")
	ErrDuplicateSprite = errors.New("sprite already registered")
	ErrInvalidSprite   = errors.New("invalid sprite")
	ErrTooManySprites  = errors.New("too many sprites")
)
