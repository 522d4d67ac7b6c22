package client

import (
	"strings"

	"github.com/supabase-community/postgrest-go"
)

const (
	restPath      = "/rest/v1"
	defaultSchema = "public"
)

// RestURL returns the PostgREST endpoint for a Supabase project URL
func RestURL(projectURL string) string {
	url := strings.TrimRight(projectURL, "/")
	if !strings.HasSuffix(url, restPath) {
		url += restPath
	}
	return url
}

// NewSupabaseClient creates a PostgREST client bound to the project URL and key.
// Nothing is sent until the first query executes.
func NewSupabaseClient(projectURL, key string) *postgrest.Client {
	return postgrest.NewClient(
		RestURL(projectURL),
		defaultSchema,
		map[string]string{
			"apikey":        key,
			"Authorization": "Bearer " + key,
		},
	)
}
