package main

import (
	"strconv"

	"github.com/fishmindlab360/bock/bockerr"
)

func itoa(i int) string { return strconv.Itoa(i) }

var errUnsupportedExecTTY = bockerr.New("bock", bockerr.Unsupported, "exec --tty", nil)
