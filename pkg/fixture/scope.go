/*
Copyright 2025 The TrustyAI Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package fixture

import (
	"context"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
	"github.com/onsi/ginkgo/v2"
	"github.com/pkg/errors"
)

// TeardownFunc releases something acquired by a fixture.
type TeardownFunc func(ctx context.Context) error

type teardown struct {
	name string
	fn   TeardownFunc
}

// Scope is a named stack of teardowns. Fixtures push a teardown once their resource exists and
// Close releases everything in reverse acquisition order.
type Scope struct {
	name string
	log  logr.Logger

	mu        sync.Mutex
	teardowns []teardown
}

func NewScope(name string, logger logr.Logger) *Scope {
	return &Scope{
		name: name,
		log:  logger.WithValues("scope", name),
	}
}

func (s *Scope) Name() string {
	return s.name
}

// Defer registers fn to run when the scope closes.
func (s *Scope) Defer(name string, fn TeardownFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardowns = append(s.teardowns, teardown{name: name, fn: fn})
}

// Len returns the number of pending teardowns.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.teardowns)
}

// Close runs every pending teardown exactly once, last registered first. A failing teardown does
// not stop the others; all failures are returned together. Closing an empty scope is a no-op.
func (s *Scope) Close(ctx context.Context) error {
	s.mu.Lock()
	pending := s.teardowns
	s.teardowns = nil
	s.mu.Unlock()

	var result *multierror.Error
	for i := len(pending) - 1; i >= 0; i-- {
		td := pending[i]
		s.log.Info("Tearing down", "resource", td.name)
		if err := td.fn(ctx); err != nil {
			s.log.Error(err, "Teardown failed", "resource", td.name)
			result = multierror.Append(result, errors.Wrapf(err, "teardown of %s", td.name))
		}
	}

	return result.ErrorOrNil()
}

// ScopeForT returns a scope closed by t.Cleanup, so teardown runs even when the test fails.
func ScopeForT(t testing.TB, name string, logger logr.Logger) *Scope {
	t.Helper()
	s := NewScope(name, logger)
	t.Cleanup(func() {
		if err := s.Close(context.Background()); err != nil {
			t.Errorf("closing scope %s: %v", name, err)
		}
	})
	return s
}

// DeferCleanup closes s when the enclosing Ginkgo container or suite finishes. Use it from a
// BeforeAll or BeforeSuite node.
func DeferCleanup(s *Scope) {
	ginkgo.DeferCleanup(func(ctx context.Context) error {
		return s.Close(ctx)
	})
}

// memo runs a fixture body at most once and caches its outcome, error included.
type memo[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (m *memo[T]) get(fn func() (T, error)) (T, error) {
	m.once.Do(func() {
		m.val, m.err = fn()
	})
	return m.val, m.err
}
