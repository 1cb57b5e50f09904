package adapter

import (
	"github.com/griffnb/core-routegen/internal/adapter/nethttp"
	"github.com/griffnb/core-routegen/internal/pathtemplate"
)

func nethttpPattern(verb, path string) string {
	return nethttp.Pattern(verb, pathtemplate.MustParse(path))
}
