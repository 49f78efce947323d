package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/harborline/cargomark-backend/internal/platform/logger"
	"github.com/harborline/cargomark-backend/internal/requestdata"
)

// ActorClaims is the token payload the station clients send. BranchID
// identifies the issuing branch office of the operator.
type ActorClaims struct {
	BranchID string `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}

type ActorMiddleware struct {
	log       *logger.Logger
	jwtSecret string
}

func NewActorMiddleware(log *logger.Logger, jwtSecret string) *ActorMiddleware {
	return &ActorMiddleware{log: log.With("Middleware", "ActorMiddleware"), jwtSecret: jwtSecret}
}

// AttachActor resolves the acting operator from a bearer token when one is
// present, or from the X-User-Id / X-Branch-Id headers the print stations
// set on a trusted LAN. Attribution only; an unresolved actor is allowed
// through and writes are stamped with nil actor fields.
func (am *ActorMiddleware) AttachActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := &requestdata.RequestData{}

		tokenString := extractBearerToken(c)
		if tokenString != "" && am.jwtSecret != "" {
			rd.TokenString = tokenString
			claims, err := am.parseClaims(tokenString)
			if err != nil {
				am.log.Warn("Failed to parse actor token", "error", err)
			} else {
				if userID, err := uuid.Parse(claims.Subject); err == nil {
					rd.UserID = userID
				}
				if claims.BranchID != "" {
					if branchID, err := uuid.Parse(claims.BranchID); err == nil {
						rd.BranchID = branchID
					}
				}
			}
		}

		if rd.UserID == uuid.Nil {
			if userID, err := uuid.Parse(strings.TrimSpace(c.GetHeader("X-User-Id"))); err == nil {
				rd.UserID = userID
			}
		}
		if rd.BranchID == uuid.Nil {
			if branchID, err := uuid.Parse(strings.TrimSpace(c.GetHeader("X-Branch-Id"))); err == nil {
				rd.BranchID = branchID
			}
		}

		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

func (am *ActorMiddleware) parseClaims(tokenString string) (*ActorClaims, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(am.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsedToken.Claims.(*ActorClaims)
	if !ok || !parsedToken.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
