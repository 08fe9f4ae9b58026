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

package submission

import (
	"fmt"
	"os"

	"k8s.io/utils/clock"

	"github.com/sparkonk8s/driver-builder/internal/security"
	"github.com/sparkonk8s/driver-builder/internal/steps"
	"github.com/sparkonk8s/driver-builder/internal/steps/hadoop"
	"github.com/sparkonk8s/driver-builder/pkg/common"
	"github.com/sparkonk8s/driver-builder/pkg/util"
)

// Orchestrator assembles the ordered configuration step list for a submission.
type Orchestrator struct {
	Provider security.Provider

	// LookupEnv, ReadFile and Clock are swapped out in tests.
	LookupEnv func(key string) (string, bool)
	ReadFile  func(name string) ([]byte, error)
	Clock     clock.PassiveClock
}

// NewOrchestrator creates an Orchestrator backed by the process environment and wall clock.
func NewOrchestrator(provider security.Provider) *Orchestrator {
	return &Orchestrator{
		Provider:  provider,
		LookupEnv: os.LookupEnv,
		ReadFile:  os.ReadFile,
		Clock:     clock.RealClock{},
	}
}

// BuildSteps computes the ordered step list for ctx. Ordering is significant: later steps may
// read fields established by earlier ones, e.g. the language runtime step resolves script
// paths against the download directories the dependency step uses.
func (o *Orchestrator) BuildSteps(ctx *Context) ([]steps.Step, error) {
	for key := range ctx.DriverLabels {
		if key == common.LabelSparkAppID {
			return nil, fmt.Errorf("driver label %s is reserved for the application ID and cannot be set", common.LabelSparkAppID)
		}
	}

	var mainClass string
	if java, ok := ctx.MainResource.(JavaMainResource); ok {
		mainClass = java.MainClass
	}

	credentials := &steps.KubernetesCredentials{
		Namespace:      ctx.Namespace,
		ResourcePrefix: ctx.ResourcePrefix,
		ServiceAccount: ctx.Property(common.SparkKubernetesAuthenticateDriverServiceAccountName, ""),
	}
	if err := o.loadDriverCredentials(ctx, credentials); err != nil {
		return nil, err
	}

	driverSteps := []steps.Step{
		&steps.BaseSpec{
			Namespace:       ctx.Namespace,
			ResourcePrefix:  ctx.ResourcePrefix,
			AppID:           ctx.AppID,
			AppName:         ctx.AppName,
			MainClass:       mainClass,
			AppArgs:         ctx.AppArgs,
			Image:           ctx.Property(common.SparkKubernetesContainerImage, ""),
			ImagePullPolicy: ctx.Property(common.SparkKubernetesContainerImagePullPolicy, "IfNotPresent"),
			CustomLabels:    ctx.DriverLabels,
		},
		credentials,
		&steps.DependencyResolution{
			Jars:             ctx.Jars,
			Files:            ctx.Files,
			JarsDownloadDir:  ctx.JarsDownloadDir(),
			FilesDownloadDir: ctx.FilesDownloadDir(),
		},
	}

	if util.ContainsNonLocalURI(ctx.Jars, ctx.Files) {
		driverSteps = append(driverSteps, &steps.InitContainerBootstrap{
			InitContainerImage: ctx.Property(common.SparkKubernetesInitContainerImage,
				ctx.Property(common.SparkKubernetesContainerImage, "")),
			ImagePullPolicy:  ctx.Property(common.SparkKubernetesContainerImagePullPolicy, "IfNotPresent"),
			RemoteJars:       util.NonLocalURIs(ctx.Jars),
			RemoteFiles:      util.NonLocalURIs(ctx.Files),
			JarsDownloadDir:  ctx.JarsDownloadDir(),
			FilesDownloadDir: ctx.FilesDownloadDir(),
		})
	}

	if confDir, ok := o.LookupEnv(common.EnvHadoopConfDir); ok && confDir != "" {
		inner := hadoop.ComputeSteps(hadoop.Options{
			ConfDir:            confDir,
			Namespace:          ctx.Namespace,
			ResourcePrefix:     ctx.ResourcePrefix,
			Provider:           o.Provider,
			Clock:              o.Clock,
			Principal:          ctx.Property(common.SparkKubernetesKerberosPrincipal, ""),
			Keytab:             ctx.Property(common.SparkKubernetesKerberosKeytab, ""),
			ExistingSecretName: ctx.Property(common.SparkKubernetesKerberosTokenSecretName, ""),
			ExistingSecretItem: ctx.Property(common.SparkKubernetesKerberosTokenSecretItemKey, ""),
		})
		if len(inner) > 0 {
			driverSteps = append(driverSteps, &steps.HadoopBootstrap{Inner: inner})
		}
	}

	if python, ok := ctx.MainResource.(PythonMainResource); ok {
		driverSteps = append(driverSteps, &steps.PythonRuntime{
			PrimaryFile:      python.PrimaryFile,
			PyFiles:          python.PyFiles,
			FilesDownloadDir: ctx.FilesDownloadDir(),
		})
	}

	return driverSteps, nil
}

// loadDriverCredentials reads the driver credential material named by the submission-side
// configuration into the credentials step. The same configuration keys are rewritten by the
// step to the in-container mounted locations.
func (o *Orchestrator) loadDriverCredentials(ctx *Context, credentials *steps.KubernetesCredentials) error {
	load := func(key string, dest *[]byte) error {
		name := ctx.Property(key, "")
		if name == "" {
			return nil
		}
		data, err := o.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read driver credential file %s: %v", name, err)
		}
		*dest = data
		return nil
	}

	if err := load(common.SparkKubernetesAuthenticateDriverOAuthTokenFile, &credentials.OAuthToken); err != nil {
		return err
	}
	if err := load(common.SparkKubernetesAuthenticateDriverCaCertFile, &credentials.CaCert); err != nil {
		return err
	}
	if err := load(common.SparkKubernetesAuthenticateDriverClientKeyFile, &credentials.ClientKey); err != nil {
		return err
	}
	return load(common.SparkKubernetesAuthenticateDriverClientCertFile, &credentials.ClientCert)
}

// BuildDriverSpec computes the step list and folds it over an empty driver specification. The
// pipeline is strictly sequential: steps are applied one at a time on the calling goroutine.
func (o *Orchestrator) BuildDriverSpec(ctx *Context) (*steps.DriverSpec, error) {
	driverSteps, err := o.BuildSteps(ctx)
	if err != nil {
		return nil, err
	}
	return steps.ApplyAll(steps.NewDriverSpec(), driverSteps)
}
