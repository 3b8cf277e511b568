package analysis

import "errors"

var errNoRepository = errors.New("no analysis repository configured")
