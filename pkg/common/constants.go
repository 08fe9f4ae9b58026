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

package common

// Labels.
const (
	// LabelAnnotationPrefix is the prefix of every label and annotation added by the builder.
	LabelAnnotationPrefix = "sparkonk8s.io/"

	// LabelSparkAppID is the label used to group API objects, e.g. the driver pod, secrets and
	// ConfigMaps, belonging to the same Spark application. It is reserved: user-supplied driver
	// labels must not set it.
	LabelSparkAppID = LabelAnnotationPrefix + "app-id"

	// LabelSparkAppName is the label carrying the application name.
	LabelSparkAppName = LabelAnnotationPrefix + "app-name"

	// LabelSparkRole is the label carrying the role of a pod within an application.
	LabelSparkRole = LabelAnnotationPrefix + "role"

	// SparkRoleDriver is the value of LabelSparkRole on driver pods.
	SparkRoleDriver = "driver"

	// LabelRefreshHadoopTokens marks delegation token secrets so external rotation tooling can
	// discover them.
	LabelRefreshHadoopTokens = "refresh-hadoop-tokens"
)

// Environment variables.
const (
	// EnvHadoopConfDir points to the directory holding Hadoop configuration files. Its presence
	// in the submission environment is what enables the Hadoop bootstrap steps.
	EnvHadoopConfDir = "HADOOP_CONF_DIR"

	// EnvHadoopTokenFileLocation points to the file storing the Hadoop delegation tokens inside
	// the driver container.
	EnvHadoopTokenFileLocation = "HADOOP_TOKEN_FILE_LOCATION"

	// EnvSparkDriverArgs carries the application arguments into the driver container.
	EnvSparkDriverArgs = "SPARK_DRIVER_ARGS"

	// EnvSparkDriverClass carries the main class of Java applications.
	EnvSparkDriverClass = "SPARK_DRIVER_CLASS"

	// EnvPysparkPrimary is the in-container path of the primary Python file.
	EnvPysparkPrimary = "PYSPARK_PRIMARY"

	// EnvPysparkFiles is the comma-separated list of in-container paths of extra Python files.
	EnvPysparkFiles = "PYSPARK_FILES"
)

// Spark configuration properties recognized by the builder.
const (
	// SparkAppID is the configuration property for the application ID.
	SparkAppID = "spark.app.id"

	// SparkAppName is the configuration property for the application name.
	SparkAppName = "spark.app.name"

	// SparkJars is the configuration property holding the resolved jar paths.
	SparkJars = "spark.jars"

	// SparkFiles is the configuration property holding the resolved file paths.
	SparkFiles = "spark.files"

	// SparkKubernetesNamespace is the configuration property for the application namespace.
	SparkKubernetesNamespace = "spark.kubernetes.namespace"

	// SparkKubernetesDriverPodName is the configuration property for the driver pod name.
	SparkKubernetesDriverPodName = "spark.kubernetes.driver.pod.name"

	// SparkKubernetesContainerImage is the configuration property for the container image.
	SparkKubernetesContainerImage = "spark.kubernetes.container.image"

	// SparkKubernetesContainerImagePullPolicy is the configuration property for the container
	// image pull policy.
	SparkKubernetesContainerImagePullPolicy = "spark.kubernetes.container.image.pullPolicy"

	// SparkKubernetesInitContainerImage is the configuration property for a custom
	// init-container image used to stage remote dependencies.
	SparkKubernetesInitContainerImage = "spark.kubernetes.initContainer.image"

	// SparkKubernetesAuthenticateDriverServiceAccountName is the configuration property for the
	// service account used by the driver pod to talk to the cluster API.
	SparkKubernetesAuthenticateDriverServiceAccountName = "spark.kubernetes.authenticate.driver.serviceAccountName"

	// SparkKubernetesAuthenticateDriverOAuthTokenFile is the configuration property for the
	// OAuth token file used by the driver's cluster API client. On the submission side it names
	// a local file whose contents are packaged into the credentials secret; the credentials step
	// rewrites it to the in-container mounted location.
	SparkKubernetesAuthenticateDriverOAuthTokenFile = "spark.kubernetes.authenticate.driver.oauthTokenFile"

	// SparkKubernetesAuthenticateDriverCaCertFile is the configuration property for the CA cert
	// file used by the driver's cluster API client. Submission-side input and in-container
	// output, like SparkKubernetesAuthenticateDriverOAuthTokenFile.
	SparkKubernetesAuthenticateDriverCaCertFile = "spark.kubernetes.authenticate.driver.caCertFile"

	// SparkKubernetesAuthenticateDriverClientKeyFile is the configuration property for the
	// client key file used by the driver's cluster API client. Submission-side input and
	// in-container output, like SparkKubernetesAuthenticateDriverOAuthTokenFile.
	SparkKubernetesAuthenticateDriverClientKeyFile = "spark.kubernetes.authenticate.driver.clientKeyFile"

	// SparkKubernetesAuthenticateDriverClientCertFile is the configuration property for the
	// client cert file used by the driver's cluster API client. Submission-side input and
	// in-container output, like SparkKubernetesAuthenticateDriverOAuthTokenFile.
	SparkKubernetesAuthenticateDriverClientCertFile = "spark.kubernetes.authenticate.driver.clientCertFile"

	// SparkKubernetesKerberosEnabled is the configuration property toggling secure Hadoop
	// interaction for the application.
	SparkKubernetesKerberosEnabled = "spark.kubernetes.kerberos.enabled"

	// SparkKubernetesKerberosPrincipal is the configuration property for the Kerberos principal
	// used to log in before acquiring delegation tokens.
	SparkKubernetesKerberosPrincipal = "spark.kubernetes.kerberos.principal"

	// SparkKubernetesKerberosKeytab is the configuration property for the keytab location used
	// together with the principal.
	SparkKubernetesKerberosKeytab = "spark.kubernetes.kerberos.keytab"

	// SparkKubernetesKerberosTokenSecretName is the configuration property naming the secret
	// holding pre-provisioned delegation tokens. It is also set by the keytab resolver to point
	// at the freshly created secret.
	SparkKubernetesKerberosTokenSecretName = "spark.kubernetes.kerberos.tokenSecret.name"

	// SparkKubernetesKerberosTokenSecretItemKey is the configuration property naming the data
	// item inside the token secret.
	SparkKubernetesKerberosTokenSecretItemKey = "spark.kubernetes.kerberos.tokenSecret.itemKey"

	// SparkKubernetesHadoopConfigMapName is set by the builder to the name of the ConfigMap
	// carrying the Hadoop configuration files.
	SparkKubernetesHadoopConfigMapName = "spark.kubernetes.hadoop.configMapName"

	// SparkJarsDownloadDir is the configuration property for the in-container directory remote
	// jars are staged into.
	SparkJarsDownloadDir = "spark.kubernetes.mountDependencies.jarsDownloadDir"

	// SparkFilesDownloadDir is the configuration property for the in-container directory remote
	// files are staged into.
	SparkFilesDownloadDir = "spark.kubernetes.mountDependencies.filesDownloadDir"
)

// Defaults and fixed in-container locations.
const (
	// DriverContainerName is the name of the main driver container.
	DriverContainerName = "spark-kubernetes-driver"

	// InitContainerName is the name of the dependency staging init container.
	InitContainerName = "spark-init"

	// DefaultJarsDownloadDir is the default staging directory for remote jars.
	DefaultJarsDownloadDir = "/var/spark-data/spark-jars"

	// DefaultFilesDownloadDir is the default staging directory for remote files.
	DefaultFilesDownloadDir = "/var/spark-data/spark-files"

	// JarsDownloadVolumeName is the name of the emptyDir volume remote jars are staged into.
	JarsDownloadVolumeName = "download-jars-volume"

	// FilesDownloadVolumeName is the name of the emptyDir volume remote files are staged into.
	FilesDownloadVolumeName = "download-files-volume"

	// HadoopConfigMapVolumeName is the name of the ConfigMap volume of Hadoop configuration files.
	HadoopConfigMapVolumeName = "hadoop-configmap-volume"

	// DefaultHadoopConfDir is where the Hadoop ConfigMap is mounted in the driver container.
	DefaultHadoopConfDir = "/etc/hadoop/conf"

	// HadoopTokenVolumeName is the name of the secret volume of Hadoop delegation tokens.
	HadoopTokenVolumeName = "hadoop-token-volume"

	// HadoopTokenSecretMountPath is where the delegation token secret is mounted in the driver
	// container.
	HadoopTokenSecretMountPath = "/mnt/secrets/hadoop-credentials"

	// KerberosSecretLabelPrefix is the fixed prefix of delegation token secret data keys. The
	// full key appends the provisioning timestamp and the computed renewal interval.
	KerberosSecretLabelPrefix = "hadoop-tokens"

	// KerberosDelegationTokenSecretNameSuffix is appended to the resource name prefix to form
	// the delegation token secret name.
	KerberosDelegationTokenSecretNameSuffix = "-delegation-tokens"

	// KubernetesCredentialsSecretNameSuffix is appended to the resource name prefix to form the
	// driver cluster API credentials secret name.
	KubernetesCredentialsSecretNameSuffix = "-kubernetes-credentials"

	// KubernetesCredentialsVolumeName is the name of the secret volume of driver cluster API
	// credentials.
	KubernetesCredentialsVolumeName = "kubernetes-credentials-volume"

	// KubernetesCredentialsMountPath is where the driver cluster API credentials secret is
	// mounted in the driver container.
	KubernetesCredentialsMountPath = "/mnt/secrets/spark-kubernetes-credentials"
)
