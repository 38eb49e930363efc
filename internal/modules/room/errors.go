package room

import "errors"

var ErrForbidden = errors.New("guest is not staying in this room")
