package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/gallery"
)

type galleryRepository struct {
	db *galleryTable
}

var _ gallery.Repository = (*galleryRepository)(nil)

func NewGalleryRepository(db *DB) *galleryRepository {
	return &galleryRepository{db: db.gallery}
}

func (repo *galleryRepository) CreatePhoto(ctx context.Context, p gallery.Photo, exec ...core.DBExecutor) (gallery.Photo, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p.ID = uuid.New().String()
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *galleryRepository) QueryAllPhotos(ctx context.Context, exec ...core.DBExecutor) ([]gallery.Photo, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	photos := make([]gallery.Photo, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		photos = append(photos, *p)
	}
	sort.Slice(photos, func(i, j int) bool { return photos[i].CreatedAt.After(photos[j].CreatedAt) })
	return photos, nil
}

func (repo *galleryRepository) GetPhotoByID(ctx context.Context, id string, exec ...core.DBExecutor) (gallery.Photo, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[id]; ok {
		return *p, nil
	}
	return gallery.Photo{}, gallery.ErrNotFound
}

func (repo *galleryRepository) DeletePhoto(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return gallery.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
