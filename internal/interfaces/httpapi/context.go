package httpapi

import (
	"context"

	"github.com/riskibarqy/carelink/internal/domain/user"
	"github.com/riskibarqy/carelink/internal/usecase"
)

type contextKey string

const (
	sessionContextKey   contextKey = "auth_session"
	accessContextKey    contextKey = "access_result"
	requestIDContextKey contextKey = "request_id"
)

func withSession(ctx context.Context, s user.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

func sessionFromContext(ctx context.Context) (user.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(user.Session)
	return s, ok && s.Valid()
}

func withAccessResult(ctx context.Context, result usecase.AccessResult) context.Context {
	ctx = context.WithValue(ctx, accessContextKey, result)
	if result.Authenticated {
		ctx = withSession(ctx, result.Session)
	}
	return ctx
}

func accessResultFromContext(ctx context.Context) (usecase.AccessResult, bool) {
	result, ok := ctx.Value(accessContextKey).(usecase.AccessResult)
	return result, ok
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}
