package astar

import "errors"

// ErrInvalidEndpoints is returned when the start or end cell is out of bounds or blocked.
var ErrInvalidEndpoints = errors.New("invalid endpoints")

// ErrAlreadyRunning is returned by Controller.Start while a search is active.
var ErrAlreadyRunning = errors.New("search already running")
