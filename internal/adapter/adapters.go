// Package adapter maps backend names to their PlatformAdapter.
package adapter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/griffnb/core-routegen/internal/adapter/echo"
	"github.com/griffnb/core-routegen/internal/adapter/gin"
	"github.com/griffnb/core-routegen/internal/adapter/nethttp"
	"github.com/griffnb/core-routegen/internal/emitter"
)

var adapters = map[string]emitter.PlatformAdapter{
	nethttp.Name: nethttp.New(),
	gin.Name:     gin.New(),
	echo.Name:    echo.New(),
}

var aliases = map[string]string{
	"nethttp":  nethttp.Name,
	"net/http": nethttp.Name,
	"servemux": nethttp.Name,
}

// Lookup returns the adapter called name.
func Lookup(name string) (emitter.PlatformAdapter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	a, ok := adapters[key]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q, want one of %s", name, strings.Join(Names(), ", "))
	}
	return a, nil
}

// Resolve looks up every name, dropping duplicates and keeping the given order.
func Resolve(names []string) ([]emitter.PlatformAdapter, error) {
	var out []emitter.PlatformAdapter
	seen := make(map[string]bool)
	for _, name := range names {
		a, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		if seen[a.Name()] {
			continue
		}
		seen[a.Name()] = true
		out = append(out, a)
	}
	return out, nil
}

// Names returns the backend names in sorted order.
func Names() []string {
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
