package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/ayokitanulis/ayokitanulis/pkg/config"
	"github.com/ayokitanulis/ayokitanulis/pkg/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_VerifiesBothAlgorithms(t *testing.T) {
	t.Parallel()

	bcryptHasher := newTestHasher()
	argonHasher := NewHasher(config.PasswordHashArgon2id)

	bcryptHash, err := bcryptHasher.Hash("secret1")
	require.NoError(t, err)
	argonHash, err := argonHasher.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, len(argonHash) > len(argon2idPrefix))
	assert.Equal(t, argon2idPrefix, argonHash[:len(argon2idPrefix)])

	for _, h := range []*Hasher{bcryptHasher, argonHasher} {
		ok, err := h.Verify("secret1", bcryptHash)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = h.Verify("secret1", argonHash)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = h.Verify("wrong", argonHash)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = h.Verify("wrong", bcryptHash)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	_, err = bcryptHasher.Verify("secret1", "plaintext")
	assert.Error(t, err)
}

func TestHasher_ArgonDefaultParams(t *testing.T) {
	t.Parallel()

	hash, err := NewHasher(config.PasswordHashArgon2id).Hash("secret1")
	require.NoError(t, err)
	params, _, _, err := argon2id.DecodeHash(hash)
	require.NoError(t, err)
	assert.Equal(t, argon2id.DefaultParams.Memory, params.Memory)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	insertWriter(t, svc, models.AdminID, "adminpw", models.RoleAdmin)
	insertWriter(t, svc, "doni123", "secret1", models.RoleWriter)

	t.Run("writer", func(t *testing.T) {
		identity, err := svc.Authenticate(ctx, "doni123", "secret1")
		require.NoError(t, err)
		assert.Equal(t, &models.Identity{ID: "doni123", Name: "doni123", Role: models.RoleWriter}, identity)
	})

	t.Run("admin", func(t *testing.T) {
		identity, err := svc.Authenticate(ctx, "admin", "adminpw")
		require.NoError(t, err)
		assert.True(t, identity.IsAdmin())
		assert.Equal(t, models.AdminID, identity.ID)
	})

	t.Run("id is case-insensitive and the stored id is returned", func(t *testing.T) {
		identity, err := svc.Authenticate(ctx, "DONI123", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "doni123", identity.ID)
	})

	t.Run("admin id in another case resolves to the stored admin", func(t *testing.T) {
		for _, id := range []string{"ADMIN", "Admin", " admin "} {
			identity, err := svc.Authenticate(ctx, id, "adminpw")
			require.NoError(t, err, id)
			assert.Equal(t, &models.Identity{ID: models.AdminID, Name: models.AdminID, Role: models.RoleAdmin}, identity, id)
		}
	})

	t.Run("role is admin exactly when the returned id is admin", func(t *testing.T) {
		for _, c := range []struct{ id, password string }{
			{"admin", "adminpw"},
			{"ADMIN", "adminpw"},
			{"doni123", "secret1"},
			{"Doni123", "secret1"},
		} {
			identity, err := svc.Authenticate(ctx, c.id, c.password)
			require.NoError(t, err, c.id)
			assert.Equal(t, identity.ID == models.AdminID, identity.IsAdmin(), c.id)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "doni123", "secret2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)
	insertWriter(t, svc, "doni123", "secret1", models.RoleWriter)

	token, err := svc.GenerateToken(&models.Identity{ID: "doni123", Role: models.RoleWriter})
	require.NoError(t, err)

	identity, err := svc.Reconstruct(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "doni123", identity.ID)
	assert.Equal(t, models.RoleWriter, identity.Role)
}

func TestReconstruct_Rejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, db := newTestService(t)
	insertWriter(t, svc, "doni123", "secret1", models.RoleWriter)

	t.Run("role mismatch", func(t *testing.T) {
		token, err := svc.GenerateToken(&models.Identity{ID: "doni123", Role: models.RoleAdmin})
		require.NoError(t, err)
		_, err = svc.Reconstruct(ctx, token)
		assert.Error(t, err)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewService(db, newTestHasher(), "another-secret", time.Hour)
		token, err := other.GenerateToken(&models.Identity{ID: "doni123", Role: models.RoleWriter})
		require.NoError(t, err)
		_, err = svc.Reconstruct(ctx, token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewService(db, newTestHasher(), testSecret, time.Hour)
		old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := old.GenerateToken(&models.Identity{ID: "doni123", Role: models.RoleWriter})
		require.NoError(t, err)
		_, err = svc.Reconstruct(ctx, token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("deleted writer", func(t *testing.T) {
		insertWriter(t, svc, "gone", "secret1", models.RoleWriter)
		token, err := svc.GenerateToken(&models.Identity{ID: "gone", Role: models.RoleWriter})
		require.NoError(t, err)
		_, err = db.NewDelete().Model((*models.Writer)(nil)).Where("id = ?", "gone").Exec(ctx)
		require.NoError(t, err)
		_, err = svc.Reconstruct(ctx, token)
		assert.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{WriterID: "doni123", Role: models.RoleWriter})
		s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Reconstruct(ctx, s)
		assert.Error(t, err)
	})
}

func TestSetupAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	needsSetup, err := svc.NeedsSetup(ctx)
	require.NoError(t, err)
	assert.True(t, needsSetup)

	identity, err := svc.SetupAdmin(ctx, "adminpw")
	require.NoError(t, err)
	assert.Equal(t, models.AdminID, identity.ID)
	assert.True(t, identity.IsAdmin())

	needsSetup, err = svc.NeedsSetup(ctx)
	require.NoError(t, err)
	assert.False(t, needsSetup)

	_, err = svc.SetupAdmin(ctx, "again!")
	assert.ErrorIs(t, err, ErrSetupCompleted)

	writer, err := svc.GetWriterByID(ctx, models.AdminID)
	require.NoError(t, err)
	assert.NotEqual(t, "adminpw", writer.PasswordHash)
}

func TestResetAdminPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.ResetAdminPassword(ctx, "first1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.ResetAdminPassword(ctx, "second2")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = svc.Authenticate(ctx, models.AdminID, "first1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, models.AdminID, "second2")
	assert.NoError(t, err)
}
