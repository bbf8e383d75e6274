package stipple

import "errors"

// ErrEmptyForeground is returned by the foreground-biased sampler when it
// cannot find enough non-background pixels within its retry budget. An
// all-white input triggers this rather than looping forever.
var ErrEmptyForeground = errors.New("no foreground pixels found within retry budget")

// ErrInvalidConfig wraps configuration validation failures detected at
// engine construction time.
var ErrInvalidConfig = errors.New("invalid stipple configuration")
