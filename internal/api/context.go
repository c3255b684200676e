package api

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
)

func withEntry(ctx context.Context, e *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, e)
}

// requestLog returns the entry attached by withRequestLog.
func requestLog(r *http.Request) *logrus.Entry {
	if e, ok := r.Context().Value(ctxKey{}).(*logrus.Entry); ok {
		return e
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
