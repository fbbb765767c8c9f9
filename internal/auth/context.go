package auth

import "context"

type sessionContextKey struct{}

// ContextWithSession is used by the session gate to hand the validated
// session down to the handlers
func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*Session)
	return session, ok
}
