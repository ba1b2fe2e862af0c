package constant

import "time"

const (
	QUERY_TIMEOUT_DURATION = 10 * time.Second

	REQUEST_SUCCESSFUL   = "Request successful"
	REQUEST_UNSUCCESSFUL = "Request unsuccessful"

	DefaultPageSize = 20

	// Gin context key of the authenticated actor.
	ActorContextKey = "actor"

	JWT_TYPE_ACCESS = "access"
)
