package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/gallery"
)

const photoColumns = `id, title, image_url, created_at`

type photoRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	ImageURL  string    `db:"image_url"`
	CreatedAt time.Time `db:"created_at"`
}

type galleryRepository struct {
	exec core.DBExecutor
}

var _ gallery.Repository = (*galleryRepository)(nil) // interface compliance check

func NewGalleryRepository(exec core.DBExecutor) *galleryRepository {
	return &galleryRepository{exec: exec}
}

func (repo galleryRepository) queryRows(ctx context.Context, exe core.DBExecutor, q string, args ...interface{}) ([]gallery.Photo, error) {
	rows, err := exe.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying photos")
	}
	defer func() { _ = rows.Close() }()

	var rws []photoRow
	if err = sqlx.StructScan(rows, &rws); err != nil {
		return nil, errors.Wrap(err, "scanning photos")
	}
	photos := make([]gallery.Photo, 0, len(rws))
	for _, r := range rws {
		photos = append(photos, gallery.Photo(r))
	}
	return photos, nil
}

func (repo galleryRepository) CreatePhoto(ctx context.Context, p gallery.Photo, exec ...core.DBExecutor) (gallery.Photo, error) {
	p.ID = uuid.New().String()
	q := bind(`INSERT INTO photo (` + photoColumns + `) VALUES (?, ?, ?, ?)`)
	_, err := getExec(repo.exec, exec).ExecContext(ctx, q, p.ID, p.Title, p.ImageURL, p.CreatedAt)
	if err != nil {
		return gallery.Photo{}, errors.Wrap(err, "inserting photo")
	}
	return p, nil
}

func (repo galleryRepository) QueryAllPhotos(ctx context.Context, exec ...core.DBExecutor) ([]gallery.Photo, error) {
	q := `SELECT ` + photoColumns + ` FROM photo ORDER BY created_at DESC`
	return repo.queryRows(ctx, getExec(repo.exec, exec), q)
}

func (repo galleryRepository) GetPhotoByID(ctx context.Context, id string, exec ...core.DBExecutor) (gallery.Photo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return gallery.Photo{}, gallery.ErrNotFound
	}
	q := bind(`SELECT ` + photoColumns + ` FROM photo WHERE id = ?`)
	photos, err := repo.queryRows(ctx, getExec(repo.exec, exec), q, id)
	if err != nil {
		return gallery.Photo{}, err
	}
	if len(photos) == 0 {
		return gallery.Photo{}, gallery.ErrNotFound
	}
	return photos[0], nil
}

func (repo galleryRepository) DeletePhoto(ctx context.Context, id string, exec ...core.DBExecutor) error {
	q := bind(`DELETE FROM photo WHERE id = ?`)
	if _, err := getExec(repo.exec, exec).ExecContext(ctx, q, id); err != nil {
		return errors.Wrap(err, "deleting photo")
	}
	return nil
}
