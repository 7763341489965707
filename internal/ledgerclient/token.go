package ledgerclient

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// minTokenLifetime is how long the bearer token must remain valid for a full
// scenario run to finish without re-authentication.
const minTokenLifetime = 2 * time.Minute

// inspectToken peeks at the access token's claims without verifying the
// signature (the harness does not hold the ledger's signing key). It only
// warns: a short-lived token or a subject mismatch is worth flagging before
// scenarios start failing with 401s halfway through the run.
func (c *Client) inspectToken() {
	parser := jwt.NewParser()
	claims := &jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(c.token, claims); err != nil {
		c.logger.Warn("access token is not a parseable JWT", slog.String("error", err.Error()))
		return
	}

	if claims.ExpiresAt != nil {
		remaining := time.Until(claims.ExpiresAt.Time)
		if remaining < minTokenLifetime {
			c.logger.Warn("access token expires soon",
				slog.Duration("remaining", remaining))
		}
	}

	if claims.Subject != "" && c.userID != 0 {
		if sub, err := strconv.ParseInt(claims.Subject, 10, 64); err == nil && sub != c.userID {
			c.logger.Warn("token subject does not match reported user ID",
				slog.String("subject", claims.Subject),
				slog.Int64("user_id", c.userID))
		}
	}
}
