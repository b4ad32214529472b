package config

import (
	"os"
	"strconv"
)

// Load returns Default() with any recognized environment variable applied
// on top. Unset or unparsable variables fall back to the default silently.
func Load() Options {
	opts := Default()

	if v, ok := lookupInt("ACTIVITIES_MAX_POOL_SIZE"); ok {
		opts.MaxActivityPoolSize = v
	}
	if v, ok := lookupInt("ACTIVITIES_MAX_RETRY"); ok {
		opts.MaxActivityRetry = v
	}
	if v, ok := lookupBool("ACTIVITIES_DEBUG"); ok {
		opts.DebugOperations = v
	}

	return opts
}

func lookupInt(name string) (int, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func lookupBool(name string) (bool, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return b, true
}
