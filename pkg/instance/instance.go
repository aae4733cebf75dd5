package instance

import "github.com/angelmondragon/storefront-backend/pkg/env"

// ID names the running process in logs: DYNO on Heroku, HOSTNAME in containers, "local" otherwise.
func ID() string {
	return env.Get("DYNO", env.Get("HOSTNAME", "local"))
}
