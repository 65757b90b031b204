// Package storage keeps uploaded product images on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const productsDir = "products"

// LocalStore writes images under root/products and serves them from
// baseURL/products.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{root: filepath.Clean(root), baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name: %s", name)
	}
	dir := filepath.Join(s.root, productsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	target := filepath.Join(dir, name)
	out, err := os.Create(target)
	if err != nil {
		return "", err
	}

	_, err = io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// a partial file must not be served
		_ = os.Remove(target)
		return "", err
	}
	return s.baseURL + "/" + productsDir + "/" + name, nil
}

// Delete removes a file previously returned by Save. Urls this store did
// not produce are ignored, as are files that are already gone.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" || !strings.HasPrefix(trimmed, s.baseURL+"/") {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, s.baseURL))
	cleanRel = strings.TrimPrefix(cleanRel, "/")
	if !strings.HasPrefix(cleanRel, productsDir+"/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", url)
	}

	target := filepath.Clean(filepath.Join(s.root, filepath.FromSlash(cleanRel)))
	if !strings.HasPrefix(target, s.root+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside upload root: %s", url)
	}

	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}
