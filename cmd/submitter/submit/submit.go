/*
Copyright 2025 The driver-builder authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package submit

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"k8s.io/client-go/kubernetes"
	ctrl "sigs.k8s.io/controller-runtime"
	logzap "sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/yaml"

	"github.com/sparkonk8s/driver-builder/internal/deploy"
	"github.com/sparkonk8s/driver-builder/internal/security"
	"github.com/sparkonk8s/driver-builder/internal/steps"
	"github.com/sparkonk8s/driver-builder/internal/submission"
	"github.com/sparkonk8s/driver-builder/pkg/common"
)

var logger = ctrl.Log.WithName("")

var (
	namespace    string
	appName      string
	mainClass    string
	jars         []string
	files        []string
	pyFiles      []string
	driverLabels map[string]string
	confEntries  []string
	dryRun       bool

	development bool

	zapOptions = logzap.Options{}
)

// NewCommand creates the submit subcommand.
func NewCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "submit <main application file> [-- application args]",
		Short: "Build the driver pod configuration and create it in the cluster",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			viper.AutomaticEnv()
			development = viper.GetBool("development")
			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0], args[1:])
		},
	}

	command.Flags().StringVar(&namespace, "namespace", "default", "Namespace the driver pod is created in.")
	command.Flags().StringVar(&appName, "name", "spark", "Name of the application.")
	command.Flags().StringVar(&mainClass, "class", "", "Main class of Java applications.")
	command.Flags().StringSliceVar(&jars, "jars", nil, "Jar dependency URIs.")
	command.Flags().StringSliceVar(&files, "files", nil, "File dependency URIs.")
	command.Flags().StringSliceVar(&pyFiles, "py-files", nil, "Extra Python file URIs for script applications.")
	command.Flags().StringToStringVar(&driverLabels, "driver-label", nil, "Custom labels for the driver pod.")
	command.Flags().StringArrayVar(&confEntries, "conf", nil, "Spark configuration properties, key=value.")
	command.Flags().BoolVar(&dryRun, "dry-run", false, "Print the final specification instead of creating it.")

	flagSet := flag.NewFlagSet("submit", flag.ExitOnError)
	zapOptions.BindFlags(flagSet)
	command.Flags().AddGoFlagSet(flagSet)

	return command
}

func run(mainAppResource string, appArgs []string) error {
	setupLog()

	properties, err := parseConf(confEntries)
	if err != nil {
		return err
	}

	ctx := submission.NewContext(namespace, appName, mainResource(mainAppResource))
	ctx.AppArgs = appArgs
	ctx.Jars = jars
	ctx.Files = files
	ctx.DriverLabels = driverLabels
	ctx.Properties = properties

	provider := security.NewAmbientProvider(ctx.BoolProperty(common.SparkKubernetesKerberosEnabled))
	orchestrator := submission.NewOrchestrator(provider)

	spec, err := orchestrator.BuildDriverSpec(ctx)
	if err != nil {
		logger.Error(err, "Failed to build the driver specification", "name", appName, "namespace", namespace)
		return err
	}

	if dryRun {
		return printSpec(spec)
	}

	cfg, err := ctrl.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to get kube config: %v", err)
	}
	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to create clientset: %v", err)
	}

	pod, err := deploy.NewClient(clientset).Run(context.Background(), spec)
	if err != nil {
		return err
	}
	logger.Info("Submitted application", "name", appName, "driver", pod.Name, "namespace", pod.Namespace)
	return nil
}

func mainResource(mainAppResource string) submission.MainResource {
	if strings.HasSuffix(mainAppResource, ".py") {
		return submission.PythonMainResource{
			PrimaryFile: mainAppResource,
			PyFiles:     pyFiles,
		}
	}
	return submission.JavaMainResource{
		Resource:  mainAppResource,
		MainClass: mainClass,
	}
}

func parseConf(entries []string) (map[string]string, error) {
	properties := map[string]string{}
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --conf entry %q, expected key=value", entry)
		}
		properties[key] = value
	}
	return properties, nil
}

func printSpec(spec *steps.DriverSpec) error {
	pod := spec.Pod.DeepCopy()
	pod.Spec.Containers = append(pod.Spec.Containers, *spec.Container)
	objects := append([]interface{}{pod}, specResources(spec)...)
	for _, obj := range objects {
		out, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf("failed to marshal specification: %v", err)
		}
		fmt.Printf("---\n%s", out)
	}
	return nil
}

func specResources(spec *steps.DriverSpec) []interface{} {
	resources := make([]interface{}, 0, len(spec.Resources))
	for _, r := range spec.Resources {
		resources = append(resources, r)
	}
	return resources
}

// setupLog configures the logging system.
func setupLog() {
	ctrl.SetLogger(logzap.New(
		logzap.UseFlagOptions(&zapOptions),
		func(o *logzap.Options) {
			o.Development = development
		}, func(o *logzap.Options) {
			o.ZapOpts = append(o.ZapOpts, zap.AddCaller())
		}, func(o *logzap.Options) {
			var config zapcore.EncoderConfig
			if !development {
				config = zap.NewProductionEncoderConfig()
			} else {
				config = zap.NewDevelopmentEncoderConfig()
				config.EncodeLevel = zapcore.CapitalColorLevelEncoder
			}
			config.EncodeTime = zapcore.ISO8601TimeEncoder
			config.EncodeCaller = zapcore.ShortCallerEncoder
			if !development {
				o.Encoder = zapcore.NewJSONEncoder(config)
			} else {
				o.Encoder = zapcore.NewConsoleEncoder(config)
			}
		}),
	)
}
