package orchestrator

import (
	"fmt"
	"sort"

	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/parser/route"
)

// Catalog is every controller and struct found in the loaded files.
// It implements domain.Provider and is read-only once built.
type Catalog struct {
	controllers []*domain.Controller
	structs     map[string]*domain.Struct
	orphans     []*route.ReceiverMethod
}

var _ domain.Provider = (*Catalog)(nil)

// NewCatalog merges per-file results. Controllers keep file-path order; the
// methods of each controller are sorted by file and source offset, so methods
// declared next to the controller come first in declaration order.
func NewCatalog(results []*route.FileResult) (*Catalog, error) {
	sorted := make([]*route.FileResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	c := &Catalog{structs: make(map[string]*domain.Struct)}
	byType := make(map[string]*domain.Controller)

	for _, r := range sorted {
		for _, ctrl := range r.Controllers {
			key := ctrl.Type().Key()
			if prev, ok := byType[key]; ok {
				return nil, fmt.Errorf("controller %s declared in %s and %s", key, prev.File, ctrl.File)
			}
			byType[key] = ctrl
			c.controllers = append(c.controllers, ctrl)
		}
		for _, st := range r.Structs {
			c.structs[st.Type().Key()] = st
		}
	}

	var methods []*route.ReceiverMethod
	for _, r := range sorted {
		methods = append(methods, r.Methods...)
	}
	sort.SliceStable(methods, func(i, j int) bool {
		if methods[i].File != methods[j].File {
			return methods[i].File < methods[j].File
		}
		return methods[i].Offset < methods[j].Offset
	})

	for _, rm := range methods {
		ctrl, ok := byType[rm.PkgPath+"."+rm.Receiver]
		if !ok {
			c.orphans = append(c.orphans, rm)
			continue
		}
		ctrl.Methods = append(ctrl.Methods, rm.Method)
	}
	return c, nil
}

// Controllers returns every controller in file-path order.
func (c *Catalog) Controllers() []*domain.Controller {
	return c.controllers
}

// LookupStruct returns the struct declaration for a type.
func (c *Catalog) LookupStruct(t domain.TypeRef) (*domain.Struct, bool) {
	st, ok := c.structs[t.Key()]
	return st, ok
}

// Orphans returns annotated methods whose receiver is not a controller.
func (c *Catalog) Orphans() []*route.ReceiverMethod {
	return c.orphans
}
