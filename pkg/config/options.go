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
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/validator.v9"

	"github.com/trustyai-explainability/trustyai-tests/pkg/constants"
)

// EnvPrefix is prepended to every environment variable read into Options.
const EnvPrefix = "TRUSTYAI_TESTS"

// Options drive the fixture graph. Values are resolved as defaults, then environment, then flags.
type Options struct {
	// UseModelMeshImage injects the modelmesh image reference into the model serving config.
	// Also read from the unprefixed USE_MODELMESH_IMAGE.
	UseModelMeshImage bool `envconfig:"USE_MODELMESH_IMAGE"`
	// Operator forces the operator flavour instead of probing the cluster.
	Operator               string        `envconfig:"OPERATOR" validate:"omitempty,oneof=odh rhoai"`
	NamespaceActiveTimeout time.Duration `envconfig:"NAMESPACE_ACTIVE_TIMEOUT" validate:"gt=0"`
	NamespaceDeleteTimeout time.Duration `envconfig:"NAMESPACE_DELETE_TIMEOUT" validate:"gte=0"`
	ResourceDeleteTimeout  time.Duration `envconfig:"RESOURCE_DELETE_TIMEOUT" validate:"gte=0"`
	PollInterval           time.Duration `envconfig:"POLL_INTERVAL" validate:"gt=0"`
	// RunID labels every object created by the session.
	RunID string `envconfig:"RUN_ID" validate:"required,max=63"`
}

func DefaultOptions() Options {
	return Options{
		UseModelMeshImage:      false,
		NamespaceActiveTimeout: constants.DefaultNamespaceActiveWait,
		NamespaceDeleteTimeout: constants.DefaultNamespaceDeleteWait,
		ResourceDeleteTimeout:  constants.DefaultResourceDeleteTimeout,
		PollInterval:           constants.DefaultPollInterval,
		RunID:                  uuid.New().String(),
	}
}

// LoadFromEnv overrides opts with the values found in the environment. Unset variables keep
// the current value.
func LoadFromEnv(opts *Options) error {
	if err := envconfig.Process(EnvPrefix, opts); err != nil {
		return errors.Wrap(err, "failed to read options from environment")
	}
	return nil
}

// BindFlags registers the options on fs using the current values as defaults.
func (o *Options) BindFlags(fs *flag.FlagSet) {
	fs.BoolVar(&o.UseModelMeshImage, "use-modelmesh-image", o.UseModelMeshImage,
		"Inject the "+constants.ModelMeshImageName+":"+constants.ModelMeshImageTag+" image into the model serving config.")
	fs.StringVar(&o.Operator, "operator", o.Operator,
		"Operator flavour deploying model serving (odh or rhoai). Detected from the cluster when empty.")
	fs.DurationVar(&o.NamespaceActiveTimeout, "namespace-active-timeout", o.NamespaceActiveTimeout,
		"How long to wait for the model namespace to become Active.")
	fs.DurationVar(&o.NamespaceDeleteTimeout, "namespace-delete-timeout", o.NamespaceDeleteTimeout,
		"How long to wait for the model namespace to be deleted on teardown.")
	fs.DurationVar(&o.ResourceDeleteTimeout, "resource-delete-timeout", o.ResourceDeleteTimeout,
		"How long to wait for namespaced resources to be deleted on teardown.")
	fs.DurationVar(&o.PollInterval, "poll-interval", o.PollInterval, "Interval between status checks.")
	fs.StringVar(&o.RunID, "run-id", o.RunID, "Identifier labelling every object created by this run.")
}

var validate = validator.New()

func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(err, "invalid options")
	}
	return nil
}
