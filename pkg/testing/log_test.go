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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingT struct {
	lines []string
}

func (r *recordingT) Log(args ...interface{}) {
	for _, a := range args {
		if s, ok := a.(string); ok {
			r.lines = append(r.lines, s)
		}
	}
}

func (r *recordingT) Helper() {}

func TestNewTestLogger(t *testing.T) {
	rec := &recordingT{}
	logger := NewTestLogger(rec).WithName("fixture").WithValues("scope", "class")

	logger.Info("Creating resource", "name", "test-namespace")
	logger.V(1).Info("Waiting for status")
	logger.Error(assert.AnError, "Teardown failed")

	if assert.Len(t, rec.lines, 3) {
		assert.True(t, strings.HasPrefix(rec.lines[0], "[fixture] "))
		assert.Contains(t, rec.lines[0], `"msg"="Creating resource"`)
		assert.Contains(t, rec.lines[0], `"scope"="class"`)
		assert.Contains(t, rec.lines[0], `"name"="test-namespace"`)
		assert.Contains(t, rec.lines[1], `"msg"="Waiting for status"`)
		assert.Contains(t, rec.lines[2], `"error"="`+assert.AnError.Error()+`"`)
	}
}
