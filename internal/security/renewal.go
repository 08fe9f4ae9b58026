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

package security

import (
	ctrl "sigs.k8s.io/controller-runtime"
)

var logger = ctrl.Log.WithName("")

// ComputeRenewalInterval returns the number of milliseconds before the first of the given
// tokens must be renewed. For every delegation family token it attempts a renewal call and
// collects newExpiration - originalIssueTime; tokens whose renewal fails are logged and
// excluded without aborting the batch. The second return value is false when no token yielded
// an interval, in which case the caller should treat the token set as never auto-renewing.
func ComputeRenewalInterval(tokens []Token, provider Provider) (int64, bool) {
	var interval int64
	found := false
	for _, token := range tokens {
		identifier, err := token.DecodeDelegationIdentifier()
		if err != nil {
			// Not a renewable delegation token.
			continue
		}
		newExpiration, err := provider.RenewToken(token)
		if err != nil {
			logger.Error(err, "Failed to renew delegation token", "kind", token.Kind, "service", token.Service)
			continue
		}
		tokenInterval := newExpiration - identifier.IssuedAt.UnixMilli()
		if !found || tokenInterval < interval {
			interval = tokenInterval
			found = true
		}
	}
	return interval, found
}
