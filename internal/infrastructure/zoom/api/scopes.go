// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package api

import (
	"strings"

	"github.com/openlms/zoom-sync-service/internal/domain"
)

// Zoom publishes two alternate scope vocabularies for equivalent
// permissions. Classic scopes have three colon-separated segments
// ("meeting:write:admin"), granular scopes have four
// ("meeting:write:meeting:admin"). Whichever vocabulary the token response
// carries determines which required-scope checklist applies.

// requiredClassicScopes is the minimum grant for basic operation under the
// classic vocabulary.
var requiredClassicScopes = []string{
	"meeting:read:admin",
	"meeting:write:admin",
	"user:read:admin",
}

// requiredGranularScopes is the minimum grant under the granular vocabulary.
var requiredGranularScopes = []string{
	"meeting:read:meeting:admin",
	"meeting:read:list_meetings:admin",
	"meeting:write:meeting:admin",
	"meeting:update:meeting:admin",
	"meeting:delete:meeting:admin",
	"user:read:user:admin",
	"user:read:list_users:admin",
}

// Optional scope families. The jobs probe these via HasScope to choose
// between the dashboard, report and metrics API surfaces, and to decide
// whether recordings can be synced at all.
var (
	ScopesDashboardMeetings = []string{
		"dashboard_meetings:read:admin",
		"dashboard:read:list_meetings:admin",
	}
	ScopesDashboardWebinars = []string{
		"dashboard_webinars:read:admin",
		"dashboard:read:list_webinars:admin",
	}
	ScopesReportMeetings = []string{
		"report:read:admin",
		"report:read:list_users:admin",
		"report:read:user_meetings:admin",
	}
	ScopesReportParticipants = []string{
		"report:read:admin",
		"report:read:list_meeting_participants:admin",
	}
	ScopesMetricsParticipants = []string{
		"dashboard_meetings:read:admin",
		"dashboard:read:list_meeting_participants:admin",
	}
	ScopesRecordings = []string{
		"recording:read:admin",
		"cloud_recording:read:list_user_recordings:admin",
		"cloud_recording:read:list_recording_files:admin",
	}
)

// parseScopes splits the space-delimited scope string of a token response
// into a set.
func parseScopes(scopeString string) map[string]struct{} {
	scopes := make(map[string]struct{})
	for _, scope := range strings.Fields(scopeString) {
		scopes[scope] = struct{}{}
	}
	return scopes
}

// isGranularVocabulary reports whether the granted set uses the granular
// naming (any scope with four segments).
func isGranularVocabulary(scopes map[string]struct{}) bool {
	for scope := range scopes {
		if strings.Count(scope, ":") >= 3 {
			return true
		}
	}
	return false
}

// validateRequiredScopes checks the granted set against the checklist of
// whichever vocabulary it uses. A missing scope is a fatal configuration
// error surfaced to the caller, never retried.
func validateRequiredScopes(scopes map[string]struct{}) error {
	required := requiredClassicScopes
	if isGranularVocabulary(scopes) {
		required = requiredGranularScopes
	}

	var missing []string
	for _, scope := range required {
		if _, ok := scopes[scope]; !ok {
			missing = append(missing, scope)
		}
	}
	if len(missing) > 0 {
		return domain.NewConfigurationError(
			"zoom credential is missing required OAuth scopes: " + strings.Join(missing, ", "))
	}
	return nil
}
