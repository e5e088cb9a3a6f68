package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/quest/internal/middleware"
	"github.com/forgo/quest/internal/model"
	"github.com/forgo/quest/internal/service"
)

// run executes questctl against a sqlite file shared by one test
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(append([]string{"--store", "sqlite", "--sqlite-path", dbPath, "--quests", "../../quests.yaml"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	out, err := run(t, dbPath, args...)
	require.NoError(t, err, "questctl %s", strings.Join(args, " "))
	return out
}

func TestUserAndQuestCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quest.db")

	var profile model.UserProfile
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, db, "user", "ensure", "ada", "--name", "Ada")), &profile))
	assert.Equal(t, "Ada", profile.DisplayName)

	out := mustRun(t, db, "quest", "list", "ada")
	assert.Contains(t, out, "math-counting-1")
	assert.Regexp(t, `math-fractions-1\s+math\s+120\s+false\s+false`, out)

	var result service.CompletionResult
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, db, "quest", "complete", "ada", "math-counting-1")), &result))
	assert.Equal(t, 50, result.NewXP)
	assert.Equal(t, []string{"abacus"}, result.ItemsAwarded)

	out = mustRun(t, db, "quest", "list", "ada")
	assert.Regexp(t, `math-fractions-1\s+math\s+120\s+true\s+false`, out)

	var shown struct {
		Profile  model.UserProfile  `json:"profile"`
		Progress model.UserProgress `json:"progress"`
	}
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, db, "user", "show", "ada")), &shown))
	assert.True(t, shown.Progress.HasCompleted("math-counting-1"))
	assert.Equal(t, 1, shown.Progress.Inventory["abacus"])

	_, err := run(t, db, "quest", "complete", "ada", "no-such-quest")
	assert.ErrorIs(t, err, service.ErrQuestNotFound)

	_, err = run(t, db, "user", "show", "ghost")
	assert.ErrorIs(t, err, service.ErrProfileNotFound)
}

func TestSkillAndAchievementCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quest.db")
	mustRun(t, db, "user", "ensure", "ada")

	_, err := run(t, db, "skill", "spend", "ada", "luck")
	assert.ErrorIs(t, err, service.ErrInsufficientSkillPoints)

	mustRun(t, db, "quest", "complete", "ada", "math-counting-1")
	mustRun(t, db, "quest", "complete", "ada", "math-fractions-1")

	var profile model.UserProfile
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, db, "skill", "spend", "ada", "luck")), &profile))
	assert.Equal(t, 1, profile.Attributes.Luck)

	var check map[string][]string
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, db, "achievements", "check", "ada")), &check))
	assert.Empty(t, check["new_achievements"], "completion already evaluated achievements")
}

func TestGuildCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quest.db")
	mustRun(t, db, "user", "ensure", "ada")
	mustRun(t, db, "user", "ensure", "bob")

	var guild model.Guild
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, db, "guild", "create", "ada", "--name", "Lamplighters")), &guild))
	require.NotEmpty(t, guild.ID)

	require.NoError(t, json.Unmarshal([]byte(mustRun(t, db, "guild", "join", guild.ID, "bob")), &guild))
	assert.Equal(t, []string{"ada", "bob"}, guild.Members)

	_, err := run(t, db, "guild", "leave", guild.ID, "ada")
	assert.ErrorIs(t, err, service.ErrLeaderCannotLeave)

	assert.Contains(t, mustRun(t, db, "guild", "leave", guild.ID, "bob"), "bob left")

	require.NoError(t, json.Unmarshal([]byte(mustRun(t, db, "guild", "show", guild.ID)), &guild))
	assert.Equal(t, 1, guild.MemberCount)

	_, err = run(t, db, "guild", "create", "bob")
	assert.Error(t, err, "--name is required")
}

func TestUnknownStoreDriver(t *testing.T) {
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs([]string{"--store", "tape", "user", "show", "ada"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestTokenCommand(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keyPath := filepath.Join(t.TempDir(), "private.pem")
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), 0o600))

	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs([]string{"token", "--key", keyPath, "--user", "ada", "--name", "Ada", "--issuer", "quest-dev"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	claims, err := middleware.NewTokenVerifier(&key.PublicKey, "quest-dev").ValidateAccessToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "ada", claims.Subject)
	assert.Equal(t, "Ada", claims.Name)
}
