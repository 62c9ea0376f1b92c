// Package auth resolves the static admin secret sent with every GraphQL
// request.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/idilsaglam/checklist/internal/store/jsonstore"
)

// EnvVar overrides any stored secret.
const EnvVar = "CHECKLIST_ADMIN_SECRET"

// Sources of a credential.
const (
	SourceEnv  = "env"
	SourceFile = "file"
)

// ErrNoCredential is returned when neither the environment nor the
// credentials file hold a secret.
var ErrNoCredential = errors.New("no admin secret configured")

// Credential is the stored admin secret.
type Credential struct {
	Secret    string    `json:"secret"`
	Source    string    `json:"source"`     // "env" | "file"
	CreatedAt time.Time `json:"created_at"` // when it was saved to file
}

// Masked returns the secret with all but the last four characters hidden.
func (c *Credential) Masked() string {
	r := []rune(c.Secret)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}

// Get returns the credential from the environment, or from the file at path.
func Get(path string) (*Credential, error) {
	if env := strings.TrimSpace(os.Getenv(EnvVar)); env != "" {
		return &Credential{Secret: env, Source: SourceEnv}, nil
	}

	var c Credential
	found, err := jsonstore.Load(path, &c)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if !found || c.Secret == "" {
		return nil, ErrNoCredential
	}
	c.Source = SourceFile
	return &c, nil
}

// Set stores secret in the file at path, owner-only.
func Set(path, secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return fmt.Errorf("empty secret")
	}
	c := Credential{
		Secret:    secret,
		Source:    SourceFile,
		CreatedAt: time.Now().UTC(),
	}
	if err := jsonstore.Save(path, c, 0o600); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Delete removes the credentials file.
func Delete(path string) error {
	return jsonstore.Remove(path)
}
