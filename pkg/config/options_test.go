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

package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.False(t, opts.UseModelMeshImage)
	assert.Empty(t, opts.Operator)
	assert.Equal(t, 120*time.Second, opts.NamespaceActiveTimeout)
	assert.Equal(t, 600*time.Second, opts.NamespaceDeleteTimeout)
	assert.NotEmpty(t, opts.RunID)
	require.NoError(t, opts.Validate())

	assert.NotEqual(t, opts.RunID, DefaultOptions().RunID)
}

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		validate func(t *testing.T, opts Options)
	}{
		{
			name: "unprefixed modelmesh image flag",
			env:  map[string]string{"USE_MODELMESH_IMAGE": "true"},
			validate: func(t *testing.T, opts Options) {
				assert.True(t, opts.UseModelMeshImage)
			},
		},
		{
			name: "prefixed variables",
			env: map[string]string{
				"TRUSTYAI_TESTS_USE_MODELMESH_IMAGE":      "true",
				"TRUSTYAI_TESTS_OPERATOR":                 "rhoai",
				"TRUSTYAI_TESTS_NAMESPACE_ACTIVE_TIMEOUT": "30s",
				"TRUSTYAI_TESTS_RUN_ID":                   "ci-1234",
				"TRUSTYAI_TESTS_RESOURCE_DELETE_TIMEOUT":  "0s",
			},
			validate: func(t *testing.T, opts Options) {
				assert.True(t, opts.UseModelMeshImage)
				assert.Equal(t, "rhoai", opts.Operator)
				assert.Equal(t, 30*time.Second, opts.NamespaceActiveTimeout)
				assert.Equal(t, "ci-1234", opts.RunID)
				assert.Zero(t, opts.ResourceDeleteTimeout)
			},
		},
		{
			name: "unset variables keep defaults",
			env:  map[string]string{},
			validate: func(t *testing.T, opts Options) {
				assert.False(t, opts.UseModelMeshImage)
				assert.Equal(t, 600*time.Second, opts.NamespaceDeleteTimeout)
				assert.Equal(t, 2*time.Second, opts.PollInterval)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			opts := DefaultOptions()
			require.NoError(t, LoadFromEnv(&opts))
			tt.validate(t, opts)
		})
	}
}

func TestLoadFromEnvInvalidDuration(t *testing.T) {
	t.Setenv("TRUSTYAI_TESTS_POLL_INTERVAL", "soon")
	opts := DefaultOptions()
	assert.Error(t, LoadFromEnv(&opts))
}

func TestBindFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected func(opts Options) Options
	}{
		{
			name: "defaults",
			args: []string{},
			expected: func(opts Options) Options {
				return opts
			},
		},
		{
			name: "use modelmesh image",
			args: []string{"--use-modelmesh-image"},
			expected: func(opts Options) Options {
				opts.UseModelMeshImage = true
				return opts
			},
		},
		{
			name: "all flags",
			args: []string{
				"--use-modelmesh-image=false",
				"--operator=odh",
				"--namespace-active-timeout=1m",
				"--namespace-delete-timeout=5m",
				"--resource-delete-timeout=10s",
				"--poll-interval=500ms",
				"--run-id=local",
			},
			expected: func(opts Options) Options {
				opts.Operator = "odh"
				opts.NamespaceActiveTimeout = time.Minute
				opts.NamespaceDeleteTimeout = 5 * time.Minute
				opts.ResourceDeleteTimeout = 10 * time.Second
				opts.PollInterval = 500 * time.Millisecond
				opts.RunID = "local"
				return opts
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defaults := DefaultOptions()
			opts := defaults
			fs := flag.NewFlagSet(tt.name, flag.ContinueOnError)
			opts.BindFlags(fs)
			require.NoError(t, fs.Parse(tt.args))
			assert.Equal(t, tt.expected(defaults), opts)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(opts *Options)
		wantErr bool
	}{
		{name: "defaults", mutate: func(opts *Options) {}},
		{name: "odh operator", mutate: func(opts *Options) { opts.Operator = "odh" }},
		{name: "unknown operator", mutate: func(opts *Options) { opts.Operator = "kubeflow" }, wantErr: true},
		{name: "zero active timeout", mutate: func(opts *Options) { opts.NamespaceActiveTimeout = 0 }, wantErr: true},
		{name: "zero poll interval", mutate: func(opts *Options) { opts.PollInterval = 0 }, wantErr: true},
		{name: "empty run id", mutate: func(opts *Options) { opts.RunID = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
