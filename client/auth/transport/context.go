package transport

import "context"

type (
	contextRefreshKey string
)

const (
	ContextSkipRefreshKey contextRefreshKey = "skipRefresh"
)

// SkipRefresh marks requests made with the returned context as exempt from
// refresh coordination: a 401 is returned to the caller unchanged. Use it for
// endpoints where 401 means rejected credentials, such as login.
func SkipRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextSkipRefreshKey, true)
}

func skipRefresh(ctx context.Context) bool {
	if value := ctx.Value(ContextSkipRefreshKey); value != nil {
		skip, _ := value.(bool)
		return skip
	}
	return false
}
