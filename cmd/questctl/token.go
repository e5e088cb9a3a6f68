package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/forgo/quest/internal/middleware"
)

// tokenCmd mints access tokens for local development. Production tokens
// come from the identity provider.
func (c *cli) tokenCmd() *cobra.Command {
	var (
		keyPath string
		subject string
		name    string
		issuer  string
		ttl     time.Duration
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development access token",
		Long: `Sign an RS256 access token the server accepts when JWT_PUBLIC_KEY_PATH
points at the matching public key.

  openssl genrsa -out keys/private.pem 2048
  openssl rsa -in keys/private.pem -pubout -out keys/public.pem`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pem, err := os.ReadFile(keyPath)
			if err != nil {
				return fmt.Errorf("read private key: %w", err)
			}
			key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
			if err != nil {
				return fmt.Errorf("parse private key: %w", err)
			}

			now := time.Now()
			claims := middleware.Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   subject,
					Issuer:    issuer,
					IssuedAt:  jwt.NewNumericDate(now),
					ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
				},
				Name: name,
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			if asJSON {
				return c.printJSON(map[string]any{
					"access_token": token,
					"token_type":   "Bearer",
					"expires_in":   int(ttl.Seconds()),
					"user_id":      subject,
				})
			}
			fmt.Fprintln(c.out, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&keyPath, "key", "./keys/private.pem", "PEM RSA private key")
	cmd.Flags().StringVar(&subject, "user", "dev-user", "user id (sub claim)")
	cmd.Flags().StringVar(&name, "name", "", "display name claim")
	cmd.Flags().StringVar(&issuer, "issuer", "", "iss claim, must match JWT_ISSUER when set")
	cmd.Flags().DurationVar(&ttl, "ttl", 7*24*time.Hour, "token lifetime")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
