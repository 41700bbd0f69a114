// Package postgres implements the store contracts on gorm + Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/autotrackr/autotrackr/internal/models"
	"github.com/autotrackr/autotrackr/internal/store"
)

type Store struct {
	db *gorm.DB
}

// Connect opens the database, pings it and runs migrations. It fails fast:
// an unreachable database is a startup error, not a per-request surprise.
func Connect(ctx context.Context, dsn string, timeout time.Duration) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Job{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Users() store.UserStore { return &userStore{db: s.db} }
func (s *Store) Jobs() store.JobStore   { return &jobStore{db: s.db} }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// users

type userStore struct {
	db *gorm.DB
}

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrDuplicate
	}
	return err
}

func (s *userStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *userStore) ConsumeLinkToken(ctx context.Context, token, chatID string, now time.Time) (*models.User, error) {
	// Single conditional UPDATE: of any number of concurrent exchanges for
	// the same token, exactly one matches the WHERE clause.
	var user models.User
	res := s.db.WithContext(ctx).Model(&user).
		Clauses(clause.Returning{}).
		Where("telegram_token = ? AND telegram_token_expires_at > ?", token, now).
		Updates(map[string]interface{}{
			"telegram_chat_id":          chatID,
			"telegram_token":            "",
			"telegram_token_expires_at": nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

// jobs

type jobStore struct {
	db *gorm.DB
}

func (s *jobStore) Create(ctx context.Context, job *models.Job) error {
	return s.db.WithContext(ctx).Create(job).Error
}

func (s *jobStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date_added").
		Find(&jobs).Error
	return jobs, err
}

func (s *jobStore) FindByOwner(ctx context.Context, ownerID, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *jobStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *jobStore) Update(ctx context.Context, job *models.Job) error {
	// Save writes every column; the service keeps id/owner/date_added intact.
	return s.db.WithContext(ctx).Save(job).Error
}

func (s *jobStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Job{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
