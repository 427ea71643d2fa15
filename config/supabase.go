package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Supabase holds the project settings used by the supabase store driver.
type Supabase struct {
	URL        string
	ServiceKey string
}

// bindSupabaseEnv keeps the plain SUPABASE_* variable names working
// alongside the prefixed ones.
func bindSupabaseEnv(v *viper.Viper) {
	_ = v.BindEnv("supabase.url", envPrefix+"_SUPABASE_URL", "SUPABASE_URL")
	_ = v.BindEnv("supabase.service_key", envPrefix+"_SUPABASE_SERVICE_KEY", "SUPABASE_SERVICE_KEY")
}

func getSupabaseConfig(v *viper.Viper) Supabase {
	return Supabase{
		URL:        v.GetString("supabase.url"),
		ServiceKey: v.GetString("supabase.service_key"),
	}
}

// The anonymous key cannot write job rows, so there is no fallback to it.
func (s Supabase) validate() []error {
	var errs []error
	if s.URL == "" {
		errs = append(errs, errors.New("supabase.url (or SUPABASE_URL) is required for the supabase store"))
	}
	if s.ServiceKey == "" {
		errs = append(errs, errors.New("supabase.service_key (or SUPABASE_SERVICE_KEY) is required for the supabase store"))
	}
	return errs
}
