package document

import "errors"

var ErrForbidden = errors.New("document belongs to another guest")
