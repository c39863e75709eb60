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

package testing

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// testingT is the subset of testing.T the logger needs.
type testingT interface {
	Log(args ...interface{})
	Helper()
}

// NewTestLogger returns a logr.Logger that writes to t. Output is buffered by the test
// framework and only shown for failing or verbose tests.
func NewTestLogger(t testingT) logr.Logger {
	return funcr.New(func(prefix, args string) {
		t.Helper()
		if prefix != "" {
			t.Log("[" + prefix + "] " + args)
			return
		}
		t.Log(args)
	}, funcr.Options{
		Verbosity: 10,
	})
}
