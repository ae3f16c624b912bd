// Package upload stores user-submitted files under the public upload
// directory and hands back the public path to record on the entity.
package upload

import (
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PublicPrefix is the URL prefix the stored files are served under
const PublicPrefix = "/uploads"

// Store saves a multipart file into dir under a collision-free name and
// returns its public path.
func Store(c *fiber.Ctx, file *multipart.FileHeader, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.New().String() + filepath.Ext(file.Filename)
	if err := c.SaveFile(file, filepath.Join(dir, name)); err != nil {
		return "", err
	}

	return PublicPrefix + "/" + name, nil
}
