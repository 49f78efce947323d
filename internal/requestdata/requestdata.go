package requestdata

import (
	"context"

	"github.com/google/uuid"
)

// Defined key type so the value cannot collide with other packages' keys.
type requestDataKeyType struct{}

var requestDataKey requestDataKeyType

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

// RequestData carries the authenticated actor for attribution on writes.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
	BranchID    uuid.UUID
}

// Actor returns the user and branch IDs as nullable pointers suitable for
// stamping onto created rows. Nil when the request was anonymous.
func Actor(ctx context.Context) (userID, branchID *uuid.UUID) {
	rd := GetRequestData(ctx)
	if rd == nil {
		return nil, nil
	}
	if rd.UserID != uuid.Nil {
		u := rd.UserID
		userID = &u
	}
	if rd.BranchID != uuid.Nil {
		b := rd.BranchID
		branchID = &b
	}
	return userID, branchID
}
