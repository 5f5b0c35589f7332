// Package cloudinary загружает изображения в Cloudinary через unsigned upload preset.
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// DefaultUploadPrefix — адрес Upload API без версии.
const DefaultUploadPrefix = "https://api.cloudinary.com"

const uploadTimeout = 60 * time.Second

// Uploader отправляет изображения в облако cloud с пресетом preset.
type Uploader struct {
	cld    *cld.Cloudinary
	preset string
}

// New создаёт Uploader. Пустой uploadPrefix заменяется на DefaultUploadPrefix.
// Ключи API не нужны: загрузка идёт без подписи, права задаёт пресет.
func New(uploadPrefix, cloud, preset string) (*Uploader, error) {
	const op = "cloudinary.New"
	if cloud == "" || preset == "" {
		return nil, fmt.Errorf("%s: cloud name and upload preset are required", op)
	}
	if uploadPrefix == "" {
		uploadPrefix = DefaultUploadPrefix
	}

	conf, err := config.NewFromParams(cloud, "", "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	conf.API.UploadPrefix = uploadPrefix

	c, err := cld.NewFromConfiguration(*conf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.Upload.Client = http.Client{Timeout: uploadTimeout}

	return &Uploader{cld: c, preset: preset}, nil
}

// Upload загружает файл и возвращает его secure_url.
func (u *Uploader) Upload(ctx context.Context, name string, content io.Reader) (string, error) {
	const op = "cloudinary.Upload"

	res, err := u.cld.Upload.Upload(ctx, content, uploader.UploadParams{
		UploadPreset:     u.preset,
		Unsigned:         api.Bool(true),
		FilenameOverride: name,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("%s: %s", op, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("%s: %w", op, errors.New("empty secure_url in response"))
	}
	return res.SecureURL, nil
}
