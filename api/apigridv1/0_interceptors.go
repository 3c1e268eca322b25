package apigridv1

import (
	"context"
	"strings"

	"github.com/fulldump/box"

	"github.com/fulldump/gridadmin/grid"
	"github.com/fulldump/gridadmin/service"
)

const ContextServicerKey = "5f0c2e3a-9b7d-4c61-8f2e-6a1d0b7c4e92"

const SessionHeader = "X-Session-Id"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	s, _ := ctx.Value(ContextServicerKey).(service.Servicer)
	return s
}

// getEngine returns the engine of the session named by the X-Session-Id
// header.
func getEngine(ctx context.Context) *grid.Engine {
	session := ""
	if r := box.GetRequest(ctx); r != nil {
		session = strings.TrimSpace(r.Header.Get(SessionHeader))
	}
	return GetServicer(ctx).Session(session)
}
