package core

import "github.com/pawnrank/pawnrank/internal/outwriter"

// out is the writer every Execute function prints through.
var out = outwriter.NewOutWriter()
