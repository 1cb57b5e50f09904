package orchestrator

import (
	"fmt"
	"go/ast"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/griffnb/core-routegen/internal/binder"
	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/emitter"
	"github.com/griffnb/core-routegen/internal/loader"
	"github.com/griffnb/core-routegen/internal/parser/route"
)

// parseFilesParallel parses all files concurrently using an errgroup bounded
// by the number of CPUs. Results are sorted by file path so the catalog does
// not depend on goroutine scheduling.
func (s *Service) parseFilesParallel(files map[*ast.File]*loader.AstFileInfo) ([]*route.FileResult, error) {
	var (
		mu        sync.Mutex
		collected []*route.FileResult
	)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for astFile, fileInfo := range files {
		if astFile == nil {
			continue
		}

		g.Go(func() error {
			result, err := s.routeParser.ParseFile(fileInfo)
			if err != nil {
				return fmt.Errorf("failed to parse routes from %s: %w", fileInfo.Path, err)
			}

			mu.Lock()
			collected = append(collected, result)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].Path < collected[j].Path
	})
	return collected, nil
}

// emitted is the outcome of one (controller, backend) pair.
type emitted struct {
	desc *descriptor.Controller
	unit *emitter.Unit
	err  *ControllerError
}

// emitParallel runs describe and emit for every pair. A failing pair is
// recorded and never cancels the others.
func (s *Service) emitParallel(controllers []*domain.Controller, adapters []emitter.PlatformAdapter, binders map[string]*binder.Binder) *Result {
	outcomes := make([]emitted, len(controllers)*len(adapters))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for ci, ctrl := range controllers {
		for ai, a := range adapters {
			index := ci*len(adapters) + ai
			g.Go(func() error {
				outcomes[index] = s.emitOne(ctrl, a, binders[a.Name()])
				return nil
			})
		}
	}
	_ = g.Wait()

	result := &Result{Descriptors: make(map[string][]*descriptor.Controller)}
	for _, o := range outcomes {
		if o.err != nil {
			s.config.Debug.Printf("error: %v", o.err)
			result.Errors = append(result.Errors, o.err)
			continue
		}
		backend := o.unit.Backend
		result.Descriptors[backend] = append(result.Descriptors[backend], o.desc)
		result.Units = append(result.Units, o.unit)
	}

	sort.SliceStable(result.Units, func(i, j int) bool {
		return result.Units[i].FileName < result.Units[j].FileName
	})
	return result
}

func (s *Service) emitOne(ctrl *domain.Controller, a emitter.PlatformAdapter, b *binder.Binder) emitted {
	fail := func(err error) emitted {
		return emitted{err: &ControllerError{Controller: ctrl.Name, Backend: a.Name(), Err: err}}
	}

	desc, err := Describe(ctrl, b)
	if err != nil {
		return fail(err)
	}
	unit, err := s.emitter.Emit(desc, a)
	if err != nil {
		return fail(err)
	}
	s.config.Debug.Printf("Orchestrator: emitted %s (%d routes)", unit.FileName, len(unit.Routes))
	return emitted{desc: desc, unit: unit}
}
