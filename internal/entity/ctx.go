package entity

import (
	"context"
)

type (
	CtxKeyLogger struct{}
	CtxKeyIP     struct{}
	CtxKeyUser   struct{}
	CtxKeyToken  struct{}
)

func UserFromContext(ctx context.Context) (*User, error) {
	user, ok := ctx.Value(CtxKeyUser{}).(*User)
	if !ok {
		return nil, ErrUnauthorized
	}

	return user, nil
}

func SetUserToContext(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, CtxKeyUser{}, user)
}

func IPFromCtx(ctx context.Context) string {
	ip, ok := ctx.Value(CtxKeyIP{}).(string)
	if !ok {
		return ""
	}

	return ip
}
