package engine

import "errors"

// ErrBusy is returned by Start and Run while another batch is active.
var ErrBusy = errors.New("rename already in progress")
