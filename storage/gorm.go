package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eringen/udaxgui/blog"
)

// postModel is the ORM row for a post.
type postModel struct {
	ID              string    `gorm:"primaryKey;size:64"`
	Title           string    `gorm:"not null"`
	Slug            string    `gorm:"index;not null"`
	Excerpt         string    `gorm:"not null"`
	Content         string    `gorm:"type:text;not null"`
	Category        string    `gorm:"index;not null"`
	Image           string    `gorm:"not null"`
	MetaDescription string    `gorm:"not null"`
	Published       bool      `gorm:"not null"`
	Featured        bool      `gorm:"not null"`
	CreatedAt       time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime:false"`
}

func (postModel) TableName() string { return "orm_posts" }

func toModel(p blog.Post) postModel {
	return postModel{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Excerpt:         p.Excerpt,
		Content:         p.Content,
		Category:        p.Category,
		Image:           p.Image,
		MetaDescription: p.MetaDescription,
		Published:       p.Published,
		Featured:        p.Featured,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (m postModel) post() blog.Post {
	return blog.Post{
		ID:              m.ID,
		Title:           m.Title,
		Slug:            m.Slug,
		Excerpt:         m.Excerpt,
		Content:         m.Content,
		Category:        m.Category,
		Image:           m.Image,
		MetaDescription: m.MetaDescription,
		Published:       m.Published,
		Featured:        m.Featured,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

// Gorm stores posts through the GORM ORM.
type Gorm struct {
	db *gorm.DB
}

// NewGorm opens a SQLite database at path through GORM and migrates the
// post table. The dialector is pointed at the pure-Go "sqlite" driver.
func NewGorm(path string) (*Gorm, error) {
	if path == "" {
		path = DefaultDatabasePath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: "sqlite",
		DSN:        path,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return NewGormDB(db)
}

// NewGormDB wraps an already opened GORM handle.
func NewGormDB(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&postModel{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Gorm{db: db}, nil
}

// Close closes the underlying connection pool.
func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// List returns every post ordered by creation time descending.
func (g *Gorm) List(ctx context.Context) ([]blog.Post, error) {
	var rows []postModel
	if err := g.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	posts := make([]blog.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.post())
	}
	// Re-sort in Go: SQLite compares the stored datetime text, which is
	// only chronological when every row shares one offset.
	blog.SortNewestFirst(posts)
	return posts, nil
}

// GetBySlug returns a post by slug regardless of published status.
func (g *Gorm) GetBySlug(ctx context.Context, slug string) (blog.Post, error) {
	var row postModel
	err := g.db.WithContext(ctx).Where("slug = ?", slug).Order("created_at DESC").First(&row).Error
	return row.post(), translateGorm(err)
}

// GetByID returns a post by id.
func (g *Gorm) GetByID(ctx context.Context, id string) (blog.Post, error) {
	var row postModel
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	return row.post(), translateGorm(err)
}

func translateGorm(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func gormSlugTaken(tx *gorm.DB, selfID string) func(string) bool {
	return func(slug string) bool {
		var n int64
		err := tx.Model(&postModel{}).Where("slug = ? AND id <> ?", slug, selfID).Count(&n).Error
		return err != nil || n > 0
	}
}

// Create inserts a new post.
func (g *Gorm) Create(ctx context.Context, in blog.PostInput) (blog.Post, error) {
	var created blog.Post
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := blog.NewPost(in, newID(), now(), gormSlugTaken(tx, ""))
		if err != nil {
			return err
		}
		row := toModel(p)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return blog.Post{}, err
	}
	return created, nil
}

// Update merges patch into the stored post.
func (g *Gorm) Update(ctx context.Context, id string, patch blog.PostPatch) (blog.Post, error) {
	var updated blog.Post
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row postModel
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return translateGorm(err)
		}
		p, err := row.post().Apply(patch, now(), gormSlugTaken(tx, id))
		if err != nil {
			return err
		}
		next := toModel(p)
		// Select("*") so zero values such as published=false are written.
		if err := tx.Model(&postModel{ID: id}).Select("*").Omit("created_at").Updates(&next).Error; err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return blog.Post{}, err
	}
	return updated, nil
}

// Delete removes a post by id.
func (g *Gorm) Delete(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&postModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAll swaps the table contents for posts in one transaction.
func (g *Gorm) ReplaceAll(ctx context.Context, posts []blog.Post) error {
	if err := validateAll(posts); err != nil {
		return err
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&postModel{}).Error; err != nil {
			return err
		}
		prepared := prepareBulk(posts)
		if len(prepared) == 0 {
			return nil
		}
		rows := make([]postModel, len(prepared))
		for i, p := range prepared {
			rows[i] = toModel(p)
		}
		return tx.Create(&rows).Error
	})
}
