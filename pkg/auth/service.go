package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ayokitanulis/ayokitanulis/pkg/errcodes"
	"github.com/ayokitanulis/ayokitanulis/pkg/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// ErrInvalidCredentials is the single "no match" result of Authenticate. It
// doesn't say whether the id or the password was wrong.
var ErrInvalidCredentials = errcodes.Unauthorized("Invalid ID or Password")

// ErrSetupCompleted is returned when the admin record already exists.
var ErrSetupCompleted = errcodes.Forbidden("Setup has already been completed")

// JWTClaims represents the claims in a session token.
type JWTClaims struct {
	WriterID string `json:"writer_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service handles authentication operations.
type Service struct {
	db        *bun.DB
	hasher    *Hasher
	jwtSecret []byte
	expiry    time.Duration
	now       func() time.Time
}

// NewService creates a new auth service.
func NewService(db *bun.DB, hasher *Hasher, jwtSecret string, expiry time.Duration) *Service {
	return &Service{
		db:        db,
		hasher:    hasher,
		jwtSecret: []byte(jwtSecret),
		expiry:    expiry,
		now:       time.Now,
	}
}

func (s *Service) Hasher() *Hasher {
	return s.hasher
}

// NeedsSetup reports whether the admin record is missing.
func (s *Service) NeedsSetup(ctx context.Context) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*models.Writer)(nil)).
		Where("w.role = ?", models.RoleAdmin).
		Exists(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return !exists, nil
}

// Authenticate verifies the id and password against the stored writer and
// returns their identity. The role comes from the stored record.
func (s *Service) Authenticate(ctx context.Context, id, password string) (*models.Identity, error) {
	log := logger.FromContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	writer := &models.Writer{}
	err := s.db.NewSelect().
		Model(writer).
		Where("w.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	match, err := s.hasher.Verify(password, writer.PasswordHash)
	if err != nil {
		log.Err(err).Warn("stored password hash is unreadable", logger.Data{"writer_id": writer.ID})
		return nil, ErrInvalidCredentials
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	return writer.Identity(), nil
}

// GenerateToken creates a signed session token for the identity.
func (s *Service) GenerateToken(identity *models.Identity) (string, error) {
	now := s.now()
	claims := JWTClaims{
		WriterID: identity.ID,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return signedToken, nil
}

// ValidateToken validates a session token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.WriterID == "" {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// Reconstruct rebuilds the identity behind a token. The writer must still
// exist and hold the role the token was issued for.
func (s *Service) Reconstruct(ctx context.Context, tokenString string) (*models.Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	writer, err := s.GetWriterByID(ctx, claims.WriterID)
	if err != nil {
		return nil, err
	}
	if writer.Role != claims.Role {
		return nil, errors.Errorf("token role %q doesn't match stored role %q", claims.Role, writer.Role)
	}

	return writer.Identity(), nil
}

func (s *Service) GetWriterByID(ctx context.Context, id string) (*models.Writer, error) {
	writer := &models.Writer{}
	err := s.db.NewSelect().
		Model(writer).
		Where("w.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errcodes.NotFound("Writer")
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return writer, nil
}

// SetupAdmin creates the reserved admin record. It only succeeds once.
func (s *Service) SetupAdmin(ctx context.Context, password string) (*models.Identity, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	admin := &models.Writer{
		ID:           models.AdminID,
		CreatedAt:    now,
		UpdatedAt:    now,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Writer)(nil)).
			Where("w.id = ? OR w.role = ?", models.AdminID, models.RoleAdmin).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if exists {
			return ErrSetupCompleted
		}
		_, err = tx.NewInsert().Model(admin).Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	return admin.Identity(), nil
}

// ResetAdminPassword sets the admin's password, creating the admin record if
// it doesn't exist yet. It reports whether the record was created.
func (s *Service) ResetAdminPassword(ctx context.Context, password string) (bool, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	now := s.now()
	res, err := s.db.NewUpdate().
		Model((*models.Writer)(nil)).
		Set("password_hash = ?", hash).
		Set("updated_at = ?", now).
		Where("id = ?", models.AdminID).
		Where("role = ?", models.RoleAdmin).
		Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	if _, err := s.SetupAdmin(ctx, password); err != nil {
		return false, err
	}
	return true, nil
}
