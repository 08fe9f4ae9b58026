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
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sparkonk8s/driver-builder/pkg/common"
)

// MainResource describes the application entry point.
type MainResource interface {
	mainResource()
}

// JavaMainResource is a library application: a jar plus its main class.
type JavaMainResource struct {
	Resource  string
	MainClass string
}

func (JavaMainResource) mainResource() {}

// PythonMainResource is a script application: the primary file plus extra Python files.
type PythonMainResource struct {
	PrimaryFile string
	PyFiles     []string
}

func (PythonMainResource) mainResource() {}

// Context is the immutable input bundle of one submission. It is created once and never
// mutated; steps bind the slices of it they need at construction time.
type Context struct {
	Namespace      string
	ResourcePrefix string
	AppID          string
	AppName        string
	MainResource   MainResource
	AppArgs        []string
	Jars           []string
	Files          []string
	DriverLabels   map[string]string
	Properties     map[string]string
}

// NewContext assembles a submission context, generating the resource name prefix and
// application ID from the application name.
func NewContext(namespace string, appName string, mainResource MainResource) *Context {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return &Context{
		Namespace:      namespace,
		ResourcePrefix: fmt.Sprintf("%s-%s", appName, suffix),
		AppID:          fmt.Sprintf("spark-%s", suffix),
		AppName:        appName,
		MainResource:   mainResource,
		Properties:     map[string]string{},
	}
}

// Property returns the configured value for key, or def when unset.
func (c *Context) Property(key string, def string) string {
	if v, ok := c.Properties[key]; ok && v != "" {
		return v
	}
	return def
}

// BoolProperty returns the configured boolean for key, or false when unset or unparsable.
func (c *Context) BoolProperty(key string) bool {
	v, err := strconv.ParseBool(c.Properties[key])
	return err == nil && v
}

// JarsDownloadDir returns the staging directory for remote jars.
func (c *Context) JarsDownloadDir() string {
	return c.Property(common.SparkJarsDownloadDir, common.DefaultJarsDownloadDir)
}

// FilesDownloadDir returns the staging directory for remote files.
func (c *Context) FilesDownloadDir() string {
	return c.Property(common.SparkFilesDownloadDir, common.DefaultFilesDownloadDir)
}
