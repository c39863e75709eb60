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
	"os"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.uber.org/zap/zapcore"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/envtest"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

type AddToSchemeFunc func(*runtime.Scheme) error

type Config struct {
	envTestOptions []Option
}

// Client acts as a facade over a k8s envtest. It is composed of a client.Client bound to the
// test scheme and a Cleaner to remove what the fixtures left behind.
type Client struct {
	client.Client
	*envtest.Environment
	*Cleaner
}

// Configure creates a new configuration for the Kubernetes EnvTest.
func Configure(options ...Option) *Config {
	return &Config{
		envTestOptions: options,
	}
}

// UsingExistingCluster reports whether the suite talks to a real cluster instead of a local
// control plane. USE_EXISTING_CLUSTER takes precedence over the environment setting.
func (c *Client) UsingExistingCluster() bool {
	if envValue, exists := os.LookupEnv("USE_EXISTING_CLUSTER"); exists {
		return strings.EqualFold(envValue, "true")
	}

	return ptr.Deref(c.UseExistingCluster, false)
}

// Start boots the control plane, installs the CRDs and returns a client for it. It must be
// called from a Ginkgo setup node; the environment is stopped when that node's cleanup runs.
func (e *Config) Start() *Client {
	opts := zap.Options{
		Development: true,
		TimeEncoder: zapcore.TimeEncoderOfLayout(time.RFC3339),
	}
	logf.SetLogger(zap.New(zap.WriteTo(ginkgo.GinkgoWriter), zap.UseFlagOptions(&opts)))

	envTest := &envtest.Environment{
		CRDInstallOptions: envtest.CRDInstallOptions{
			ErrorIfPathMissing: true,
			CleanUpAfterUse:    true,
		},
	}
	if envValue, exists := os.LookupEnv("USE_EXISTING_CLUSTER"); exists {
		envTest.UseExistingCluster = ptr.To(strings.EqualFold(envValue, "true"))
	}

	for _, opt := range e.envTestOptions {
		opt(envTest)
	}

	cfg, errStart := envTest.Start()
	gomega.Expect(errStart).NotTo(gomega.HaveOccurred())
	gomega.Expect(cfg).NotTo(gomega.BeNil())

	cli, errClient := client.New(cfg, client.Options{Scheme: envTest.Scheme})
	gomega.Expect(errClient).NotTo(gomega.HaveOccurred())
	gomega.Expect(cli).NotTo(gomega.BeNil())

	ginkgo.DeferCleanup(envTest.Stop)

	return &Client{
		Client:      cli,
		Cleaner:     CreateCleaner(cli, cfg, 30*time.Second, 250*time.Millisecond),
		Environment: envTest,
	}
}

type Option func(target *envtest.Environment)

// WithCRDs adds CRDs to the test environment using paths.
func WithCRDs(paths ...string) Option {
	return func(target *envtest.Environment) {
		target.CRDInstallOptions.Paths = append(target.CRDInstallOptions.Paths, paths...)
	}
}

// WithScheme sets the scheme for the test environment.
func WithScheme(addToScheme ...AddToSchemeFunc) Option {
	return func(target *envtest.Environment) {
		testScheme := runtime.NewScheme()
		for _, add := range addToScheme {
			utilruntime.Must(add(testScheme))
		}
		target.Scheme = testScheme
		target.CRDInstallOptions.Scheme = testScheme
	}
}
