package storage

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// document is a row of the key/value table.
type document struct {
	Key       string `gorm:"column:doc_key;primaryKey"`
	Body      []byte `gorm:"column:body"`
	UpdatedAt time.Time
}

// PostgresStorage implements the Storage interface on a postgres table named after the
// bucket.
type PostgresStorage struct {
	Config Config
	db     *gorm.DB
}

// NewPostgresStorage connects to the database in config.DSN and migrates the table.
func NewPostgresStorage(ctx context.Context, config Config) (*PostgresStorage, error) {
	db, err := gorm.Open(postgres.Open(config.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	return NewPostgresStorageWithDB(ctx, config, db)
}

// NewPostgresStorageWithDB uses an existing gorm connection.
func NewPostgresStorageWithDB(ctx context.Context, config Config,
	db *gorm.DB) (*PostgresStorage, error) {

	result := &PostgresStorage{
		Config: config,
		db:     db,
	}

	if err := result.table(ctx).AutoMigrate(&document{}); err != nil {
		return nil, errors.Wrap(err, "migrate documents")
	}

	return result, nil
}

func (p *PostgresStorage) table(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx).Table(p.Config.Bucket)
}

func (p *PostgresStorage) Write(ctx context.Context, key string, body []byte,
	options *Options) error {

	doc := document{
		Key:       key,
		Body:      body,
		UpdatedAt: time.Now(),
	}

	err := p.table(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return errors.Wrapf(err, "write %s", key)
	}

	return nil
}

func (p *PostgresStorage) Read(ctx context.Context, key string) ([]byte, error) {
	var doc document
	err := p.table(ctx).Where("doc_key = ?", key).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "read %s", key)
	}

	return doc.Body, nil
}

func (p *PostgresStorage) Remove(ctx context.Context, key string) error {
	result := p.table(ctx).Where("doc_key = ?", key).Delete(&document{})
	if result.Error != nil {
		return errors.Wrapf(result.Error, "delete %s", key)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) Search(ctx context.Context, query map[string]string) ([][]byte, error) {
	var docs []document
	if err := p.children(ctx, query["path"]).Order("doc_key").Find(&docs).Error; err != nil {
		return nil, errors.Wrap(err, "search")
	}

	result := make([][]byte, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.Body)
	}
	return result, nil
}

func (p *PostgresStorage) List(ctx context.Context, path string) ([]string, error) {
	keys := []string{}
	if err := p.children(ctx, path).Order("doc_key").Pluck("doc_key", &keys).Error; err != nil {
		return nil, errors.Wrap(err, "list")
	}

	return keys, nil
}

func (p *PostgresStorage) Clear(ctx context.Context, query map[string]string) error {
	if err := p.children(ctx, query["path"]).Delete(&document{}).Error; err != nil {
		return errors.Wrap(err, "clear")
	}

	return nil
}

// Close closes the underlying connection pool.
func (p *PostgresStorage) Close(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// children scopes the table to keys directly under path.
func (p *PostgresStorage) children(ctx context.Context, path string) *gorm.DB {
	prefix := escapeLike(childPrefix(path))
	return p.table(ctx).
		Where("doc_key LIKE ?", prefix+"%").
		Where("doc_key NOT LIKE ?", prefix+"%/%")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
