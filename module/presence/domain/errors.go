package domain

import "github.com/rotisserie/eris"

var ErrUnknownNode = eris.New("unknown node")
