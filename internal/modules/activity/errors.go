package activity

import "errors"

var ErrForbidden = errors.New("activity booking belongs to another guest")
