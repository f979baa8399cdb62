package utils

import (
	"context"

	"ams-portal/pkg/contextkeys"
	apperrors "ams-portal/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (string, error) {
	id, ok := ctx.Value(contextkeys.UserIDKey).(string)
	if !ok || id == "" {
		return "", apperrors.ErrUserNotFoundInContext
	}
	return id, nil
}
