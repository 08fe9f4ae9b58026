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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/sparkonk8s/driver-builder/internal/security"
	"github.com/sparkonk8s/driver-builder/internal/steps"
	"github.com/sparkonk8s/driver-builder/internal/steps/hadoop"
	"github.com/sparkonk8s/driver-builder/pkg/common"
)

func newTestOrchestrator(securityEnabled bool, env map[string]string) *Orchestrator {
	return &Orchestrator{
		Provider: security.NewAmbientProvider(securityEnabled),
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		ReadFile: func(name string) ([]byte, error) {
			return nil, fmt.Errorf("no credential file %s", name)
		},
		Clock: clocktesting.NewFakeClock(time.Unix(1700001000, 0)),
	}
}

func newTestContext(mainResource MainResource) *Context {
	ctx := NewContext("default", "spark-pi", mainResource)
	ctx.Properties[common.SparkKubernetesContainerImage] = "spark:2.4.0"
	return ctx
}

func stepTypeNames(driverSteps []steps.Step) []string {
	names := make([]string, 0, len(driverSteps))
	for _, step := range driverSteps {
		switch step.(type) {
		case *steps.BaseSpec:
			names = append(names, "BaseSpec")
		case *steps.KubernetesCredentials:
			names = append(names, "KubernetesCredentials")
		case *steps.DependencyResolution:
			names = append(names, "DependencyResolution")
		case *steps.InitContainerBootstrap:
			names = append(names, "InitContainerBootstrap")
		case *steps.HadoopBootstrap:
			names = append(names, "HadoopBootstrap")
		case *steps.PythonRuntime:
			names = append(names, "PythonRuntime")
		default:
			names = append(names, "unknown")
		}
	}
	return names
}

func TestBuildStepsOrdering(t *testing.T) {
	javaMain := JavaMainResource{Resource: "local:///opt/spark/examples.jar", MainClass: "org.apache.spark.examples.SparkPi"}
	pythonMain := PythonMainResource{PrimaryFile: "local:///opt/app/main.py"}

	testCases := []struct {
		name          string
		mainResource  MainResource
		jars          []string
		files         []string
		env           map[string]string
		expectedSteps []string
	}{
		{
			name:          "local java application",
			mainResource:  javaMain,
			jars:          []string{"local:///opt/spark/examples.jar"},
			expectedSteps: []string{"BaseSpec", "KubernetesCredentials", "DependencyResolution"},
		},
		{
			name:          "remote jar adds the init container",
			mainResource:  javaMain,
			jars:          []string{"hdfs://ns1/jars/app.jar"},
			expectedSteps: []string{"BaseSpec", "KubernetesCredentials", "DependencyResolution", "InitContainerBootstrap"},
		},
		{
			name:          "remote file alone adds the init container",
			mainResource:  javaMain,
			files:         []string{"s3a://bucket/app.properties"},
			expectedSteps: []string{"BaseSpec", "KubernetesCredentials", "DependencyResolution", "InitContainerBootstrap"},
		},
		{
			name:          "hadoop environment adds the hadoop bootstrap",
			mainResource:  javaMain,
			env:           map[string]string{common.EnvHadoopConfDir: "/etc/hadoop/conf"},
			expectedSteps: []string{"BaseSpec", "KubernetesCredentials", "DependencyResolution", "HadoopBootstrap"},
		},
		{
			name:          "empty HADOOP_CONF_DIR is ignored",
			mainResource:  javaMain,
			env:           map[string]string{common.EnvHadoopConfDir: ""},
			expectedSteps: []string{"BaseSpec", "KubernetesCredentials", "DependencyResolution"},
		},
		{
			name:          "python application ends with the runtime step",
			mainResource:  pythonMain,
			expectedSteps: []string{"BaseSpec", "KubernetesCredentials", "DependencyResolution", "PythonRuntime"},
		},
		{
			name:         "all features combined keep the canonical order",
			mainResource: pythonMain,
			jars:         []string{"hdfs://ns1/jars/dep.jar"},
			env:          map[string]string{common.EnvHadoopConfDir: "/etc/hadoop/conf"},
			expectedSteps: []string{
				"BaseSpec", "KubernetesCredentials", "DependencyResolution",
				"InitContainerBootstrap", "HadoopBootstrap", "PythonRuntime",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newTestContext(tc.mainResource)
			ctx.Jars = tc.jars
			ctx.Files = tc.files

			driverSteps, err := newTestOrchestrator(false, tc.env).BuildSteps(ctx)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedSteps, stepTypeNames(driverSteps))
		})
	}
}

func TestBuildStepsReservedLabelRejected(t *testing.T) {
	ctx := newTestContext(JavaMainResource{Resource: "local:///opt/spark/examples.jar"})
	ctx.DriverLabels = map[string]string{common.LabelSparkAppID: "custom-id"}

	_, err := newTestOrchestrator(false, nil).BuildSteps(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), common.LabelSparkAppID)
	assert.Contains(t, err.Error(), "reserved")
}

func TestBuildStepsHadoopSecurityDisabledMountsConfOnly(t *testing.T) {
	ctx := newTestContext(JavaMainResource{Resource: "local:///opt/spark/examples.jar"})
	env := map[string]string{common.EnvHadoopConfDir: "/etc/hadoop/conf"}

	driverSteps, err := newTestOrchestrator(false, env).BuildSteps(ctx)
	require.NoError(t, err)

	bootstrap := findHadoopBootstrap(t, driverSteps)
	require.Len(t, bootstrap.Inner, 1)
	assert.IsType(t, &hadoop.ConfMounter{}, bootstrap.Inner[0])
}

func TestBuildStepsHadoopSecurityEnabledAddsResolver(t *testing.T) {
	ctx := newTestContext(JavaMainResource{Resource: "local:///opt/spark/examples.jar"})
	ctx.Properties[common.SparkKubernetesKerberosEnabled] = "true"
	ctx.Properties[common.SparkKubernetesKerberosPrincipal] = "spark@EXAMPLE.COM"
	ctx.Properties[common.SparkKubernetesKerberosKeytab] = "/etc/security/spark.keytab"
	env := map[string]string{common.EnvHadoopConfDir: "/etc/hadoop/conf"}

	driverSteps, err := newTestOrchestrator(true, env).BuildSteps(ctx)
	require.NoError(t, err)

	bootstrap := findHadoopBootstrap(t, driverSteps)
	require.Len(t, bootstrap.Inner, 2)
	assert.IsType(t, &hadoop.ConfMounter{}, bootstrap.Inner[0])

	resolver, ok := bootstrap.Inner[1].(*hadoop.KeytabResolver)
	require.True(t, ok)
	assert.Equal(t, "spark@EXAMPLE.COM", resolver.Principal)
	assert.Equal(t, "/etc/security/spark.keytab", resolver.Keytab)
	assert.Equal(t, ctx.ResourcePrefix, resolver.ResourcePrefix)
}

func TestBuildStepsHadoopExistingSecretSkipsAcquisition(t *testing.T) {
	ctx := newTestContext(JavaMainResource{Resource: "local:///opt/spark/examples.jar"})
	ctx.Properties[common.SparkKubernetesKerberosTokenSecretName] = "spark-tokens"
	ctx.Properties[common.SparkKubernetesKerberosTokenSecretItemKey] = "hadoop-tokens-1-1"
	env := map[string]string{common.EnvHadoopConfDir: "/etc/hadoop/conf"}

	driverSteps, err := newTestOrchestrator(true, env).BuildSteps(ctx)
	require.NoError(t, err)

	bootstrap := findHadoopBootstrap(t, driverSteps)
	require.Len(t, bootstrap.Inner, 2)
	resolver, ok := bootstrap.Inner[1].(*hadoop.SecretResolver)
	require.True(t, ok)
	assert.Equal(t, "spark-tokens", resolver.SecretName)
	assert.Equal(t, "hadoop-tokens-1-1", resolver.ItemKey)
}

func findHadoopBootstrap(t *testing.T, driverSteps []steps.Step) *steps.HadoopBootstrap {
	t.Helper()
	for _, step := range driverSteps {
		if bootstrap, ok := step.(*steps.HadoopBootstrap); ok {
			return bootstrap
		}
	}
	t.Fatal("no HadoopBootstrap step found")
	return nil
}

func TestBuildStepsLoadsDriverCredentialFiles(t *testing.T) {
	ctx := newTestContext(JavaMainResource{Resource: "local:///opt/spark/examples.jar"})
	ctx.Properties[common.SparkKubernetesAuthenticateDriverOAuthTokenFile] = "/etc/spark/oauth-token"
	ctx.Properties[common.SparkKubernetesAuthenticateDriverCaCertFile] = "/etc/spark/ca.crt"

	orchestrator := newTestOrchestrator(false, nil)
	orchestrator.ReadFile = func(name string) ([]byte, error) {
		switch name {
		case "/etc/spark/oauth-token":
			return []byte("token-material"), nil
		case "/etc/spark/ca.crt":
			return []byte("ca-material"), nil
		default:
			return nil, fmt.Errorf("no credential file %s", name)
		}
	}

	spec, err := orchestrator.BuildDriverSpec(ctx)
	require.NoError(t, err)

	require.Len(t, spec.Resources, 1)
	secret, ok := spec.Resources[0].(*corev1.Secret)
	require.True(t, ok)
	assert.Equal(t, ctx.ResourcePrefix+"-kubernetes-credentials", secret.Name)
	assert.Equal(t, []byte("token-material"), secret.Data["oauth-token"])
	assert.Equal(t, []byte("ca-material"), secret.Data["ca-cert"])

	// The configuration keys now point at the mounted locations, not the submission-side files.
	assert.Equal(t, common.KubernetesCredentialsMountPath+"/oauth-token",
		spec.SparkConf[common.SparkKubernetesAuthenticateDriverOAuthTokenFile])
	assert.Equal(t, common.KubernetesCredentialsMountPath+"/ca-cert",
		spec.SparkConf[common.SparkKubernetesAuthenticateDriverCaCertFile])
}

func TestBuildStepsDriverCredentialReadFailure(t *testing.T) {
	ctx := newTestContext(JavaMainResource{Resource: "local:///opt/spark/examples.jar"})
	ctx.Properties[common.SparkKubernetesAuthenticateDriverClientKeyFile] = "/etc/spark/client.key"

	_, err := newTestOrchestrator(false, nil).BuildSteps(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read driver credential file /etc/spark/client.key")
}

func TestBuildDriverSpec(t *testing.T) {
	ctx := newTestContext(PythonMainResource{
		PrimaryFile: "local:///opt/app/main.py",
		PyFiles:     []string{"hdfs://ns1/app/util.py"},
	})
	ctx.AppArgs = []string{"--date", "2024-01-01"}
	ctx.Files = []string{"hdfs://ns1/app/util.py"}
	ctx.Properties[common.SparkKubernetesAuthenticateDriverServiceAccountName] = "spark"

	spec, err := newTestOrchestrator(false, nil).BuildDriverSpec(ctx)
	require.NoError(t, err)

	assert.Equal(t, ctx.ResourcePrefix+"-driver", spec.Pod.Name)
	assert.Equal(t, "spark", spec.Pod.Spec.ServiceAccountName)
	assert.Equal(t, ctx.AppID, spec.Pod.Labels[common.LabelSparkAppID])
	require.Len(t, spec.Pod.Spec.InitContainers, 1)
	assert.Equal(t, common.DefaultFilesDownloadDir+"/util.py", spec.SparkConf[common.SparkFiles])
}

func TestNewContext(t *testing.T) {
	ctx := NewContext("default", "spark-pi", JavaMainResource{Resource: "local:///opt/spark/examples.jar"})

	assert.Equal(t, "default", ctx.Namespace)
	assert.Equal(t, "spark-pi", ctx.AppName)
	assert.Regexp(t, `^spark-pi-[0-9a-f]{12}$`, ctx.ResourcePrefix)
	assert.Regexp(t, `^spark-[0-9a-f]{12}$`, ctx.AppID)
	assert.Equal(t, ctx.ResourcePrefix[len("spark-pi-"):], ctx.AppID[len("spark-"):])

	other := NewContext("default", "spark-pi", JavaMainResource{})
	assert.NotEqual(t, ctx.AppID, other.AppID)
}

func TestContextProperties(t *testing.T) {
	ctx := NewContext("default", "spark-pi", JavaMainResource{})
	ctx.Properties = map[string]string{
		common.SparkKubernetesContainerImage:  "spark:2.4.0",
		common.SparkKubernetesKerberosEnabled: "true",
		common.SparkJarsDownloadDir:           "/tmp/jars",
	}

	assert.Equal(t, "spark:2.4.0", ctx.Property(common.SparkKubernetesContainerImage, "fallback"))
	assert.Equal(t, "fallback", ctx.Property("spark.unset", "fallback"))
	assert.True(t, ctx.BoolProperty(common.SparkKubernetesKerberosEnabled))
	assert.False(t, ctx.BoolProperty("spark.unset"))
	assert.Equal(t, "/tmp/jars", ctx.JarsDownloadDir())
	assert.Equal(t, common.DefaultFilesDownloadDir, ctx.FilesDownloadDir())
}
