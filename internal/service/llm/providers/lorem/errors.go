package lorem

import "errors"

var errLoremFailure = errors.New("lorem: simulated backend failure")
