// Package platform constructs the hosted-platform client. A client is built
// once per process in main and shared read-only by the repositories.
package platform

import (
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// NewSupabaseClient builds a client authenticated with the service-role key.
func NewSupabaseClient(url, serviceKey string) (*supa.Client, error) {
	client, err := supa.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return client, nil
}
