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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/klog/v2"
	knservingv1 "knative.dev/serving/pkg/apis/serving/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	ctrlconfig "sigs.k8s.io/controller-runtime/pkg/client/config"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/trustyai-explainability/trustyai-tests/pkg/apis/trustyai/v1alpha1"
	"github.com/trustyai-explainability/trustyai-tests/pkg/config"
	"github.com/trustyai-explainability/trustyai-tests/pkg/fixture"
	"github.com/trustyai-explainability/trustyai-tests/pkg/resources"
)

var (
	// logging config
	logLevel       string
	logEncoder     string
	logDevelopment bool

	scheme = runtime.NewScheme()

	// newClient is replaced in tests.
	newClient = func() (client.Client, error) {
		cfg, err := ctrlconfig.GetConfig()
		if err != nil {
			return nil, errors.Wrap(err, "unable to get kubeconfig")
		}
		return client.New(cfg, client.Options{Scheme: scheme})
	}
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(v1alpha1.AddToScheme(scheme))
	utilruntime.Must(knservingv1.AddToScheme(scheme))
}

func main() {
	opts := config.DefaultOptions()
	if err := config.LoadFromEnv(&opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCommand(&opts).ExecuteContext(ctrl.SetupSignalHandler()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(opts *config.Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trustyai-fixtures",
		Short: "Stands up and removes the TrustyAI test fixtures",
		Long: `trustyai-fixtures creates the namespaces, config maps and TrustyAIService the
integration tests run against, and removes what an interrupted run left behind.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			logger, err := initializeLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(logf.IntoContext(cmd.Context(), logger.WithValues("run", opts.RunID)))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "zap-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logEncoder, "zap-encoder", "console", "Log encoder (console, json)")
	rootCmd.PersistentFlags().BoolVar(&logDevelopment, "zap-development", false, "Development mode")
	bindGoFlags(rootCmd.PersistentFlags(), opts)

	rootCmd.AddCommand(newUpCommand(opts), newCleanupCommand(opts), newHostCommand(opts))
	return rootCmd
}

// bindGoFlags exposes the options, klog and kubeconfig flags, all declared on standard library
// flag sets, on the cobra command.
func bindGoFlags(fs *pflag.FlagSet, opts *config.Options) {
	goFlags := flag.NewFlagSet("trustyai-fixtures", flag.ContinueOnError)
	opts.BindFlags(goFlags)
	klog.InitFlags(goFlags)
	ctrlconfig.RegisterFlags(goFlags)
	fs.AddGoFlagSet(goFlags)
}

// initializeLogger builds the zap logger and installs it into controller-runtime and klog.
func initializeLogger(out io.Writer) (logr.Logger, error) {
	level, err := zap.ParseAtomicLevel(logLevel)
	if err != nil {
		return logr.Discard(), errors.Wrap(err, "failed to parse log level")
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch logEncoder {
	case "console":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return logr.Discard(), errors.Errorf("unknown log encoder %q", logEncoder)
	}

	zapOpts := []zap.Option{zap.ErrorOutput(zapcore.AddSync(out))}
	if logDevelopment {
		zapOpts = append(zapOpts, zap.Development(), zap.AddCaller())
	}
	zapLogger := zap.New(zapcore.NewCore(encoder, zapcore.AddSync(out), level), zapOpts...)

	logger := zapr.NewLogger(zapLogger)
	ctrl.SetLogger(logger)
	klog.SetLogger(logger)
	return logger, nil
}

func newUpCommand(opts *config.Options) *cobra.Command {
	var (
		withMinio    bool
		readyTimeout time.Duration
		hold         bool
		keep         bool
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Create the fixture graph and keep it until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			return runUp(cmd.Context(), c, *opts, cmd.OutOrStdout(), upOptions{
				withMinio:    withMinio,
				readyTimeout: readyTimeout,
				hold:         hold,
				keep:         keep,
			})
		},
	}

	cmd.Flags().BoolVar(&withMinio, "with-minio", false, "Also bring up the minio data connection")
	cmd.Flags().DurationVar(&readyTimeout, "ready-timeout", 0, "Wait this long for the TrustyAIService to become Ready, 0 to skip")
	cmd.Flags().BoolVar(&hold, "hold", true, "Keep the fixtures until the process is interrupted")
	cmd.Flags().BoolVar(&keep, "keep", false, "Leave the fixtures in the cluster on exit, remove them later with cleanup")
	return cmd
}

type upOptions struct {
	withMinio    bool
	readyTimeout time.Duration
	hold         bool
	keep         bool
}

func runUp(ctx context.Context, c client.Client, opts config.Options, out io.Writer, up upOptions) (err error) {
	logger := logf.FromContext(ctx)

	session := fixture.NewSession(c, opts)
	class := session.NewClass("trustyai-fixtures")
	defer func() {
		if up.keep {
			logger.Info("Leaving fixtures in place", "cleanup", "trustyai-fixtures cleanup --run-id "+opts.RunID)
			return
		}
		// the signal context is already done when interrupted
		teardownCtx := context.WithoutCancel(ctx)
		var result *multierror.Error
		if closeErr := class.Close(teardownCtx); closeErr != nil {
			result = multierror.Append(result, closeErr)
		}
		if closeErr := session.Close(teardownCtx); closeErr != nil {
			result = multierror.Append(result, closeErr)
		}
		if result != nil {
			err = multierror.Append(result, err).ErrorOrNil()
		}
	}()

	if err := session.Setup(ctx); err != nil {
		return err
	}

	svc, err := class.TrustyAIService(ctx)
	if err != nil {
		return err
	}
	if up.withMinio {
		if _, err := class.MinioDataConnection(ctx); err != nil {
			return err
		}
	}
	if up.readyTimeout > 0 {
		if err := svc.WaitForStatus(ctx, v1alpha1.PhaseReady, up.readyTimeout); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "run id:           %s\n", opts.RunID)
	fmt.Fprintf(out, "namespace:        %s\n", svc.Namespace())
	fmt.Fprintf(out, "trustyai service: %s\n", svc.Name())

	if up.hold {
		logger.Info("Fixtures are up, interrupt to tear them down")
		<-ctx.Done()
	}
	return nil
}

func newCleanupCommand(opts *config.Options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete the objects left behind by a run",
		Long: `cleanup deletes every object labelled with the run id given by --run-id, or with
any run id when --all is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			runID := opts.RunID
			if all {
				runID = ""
			}
			deleted, err := fixture.Cleanup(cmd.Context(), c, runID)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d objects\n", deleted)
			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Delete the leftovers of every run")
	return cmd
}

func newHostCommand(opts *config.Options) *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "host ROUTE",
		Short: "Print the address of a knative route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			route := resources.NewRoute(c, args[0], namespace,
				resources.WithLogger(logf.FromContext(cmd.Context())),
				resources.WithPollInterval(opts.PollInterval))
			host, err := route.Host(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), host)
			return nil
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "default", "Namespace of the route")
	return cmd
}
