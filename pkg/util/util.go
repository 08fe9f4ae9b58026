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

package util

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
)

// IsLocalURI returns whether the given dependency URI refers to a path already present in the
// container image. URIs without a scheme are treated as plain in-container paths.
func IsLocalURI(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil {
		return false
	}
	return u.Scheme == "" || u.Scheme == "local"
}

// ContainsNonLocalURI returns whether any of the given dependency URIs must be staged into the
// pod before the driver starts.
func ContainsNonLocalURI(uriLists ...[]string) bool {
	for _, uris := range uriLists {
		for _, uri := range uris {
			if !IsLocalURI(uri) {
				return true
			}
		}
	}
	return false
}

// NonLocalURIs filters the given dependency URIs down to those that must be staged.
func NonLocalURIs(uris []string) []string {
	var remote []string
	for _, uri := range uris {
		if !IsLocalURI(uri) {
			remote = append(remote, uri)
		}
	}
	return remote
}

// ResolveContainerPath maps a dependency URI to the path the driver will read it from inside
// the container: local URIs keep their path, remote URIs land in the download directory. A
// remote URI without a file name cannot be staged and is rejected.
func ResolveContainerPath(uri string, downloadDir string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse dependency URI %q: %v", uri, err)
	}
	switch u.Scheme {
	case "":
		return uri, nil
	case "local":
		return u.Path, nil
	default:
		base := path.Base(u.Path)
		if base == "." || base == "/" {
			return "", fmt.Errorf("dependency URI %q carries no file name", uri)
		}
		return filepath.Join(downloadDir, base), nil
	}
}

// ResolveContainerPaths maps every dependency URI through ResolveContainerPath.
func ResolveContainerPaths(uris []string, downloadDir string) ([]string, error) {
	if len(uris) == 0 {
		return nil, nil
	}
	resolved := make([]string, 0, len(uris))
	for _, uri := range uris {
		p, err := ResolveContainerPath(uri, downloadDir)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, p)
	}
	return resolved, nil
}
