package client

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huanfeng/fdroidmeta/internal/errors"
	"github.com/huanfeng/fdroidmeta/pkg/models"
	"github.com/huanfeng/fdroidmeta/pkg/utils"
)

const (
	// IndexJSON is the index document inside a repository
	IndexJSON = "index-v1.json"
	// IndexJar is the signed archive carrying IndexJSON
	IndexJar = "index-v1.jar"
)

// Source retrieves a parsed repository index by address
type Source interface {
	Fetch(ctx context.Context, address string) (*models.RepositoryIndex, error)
}

// FileSource reads indexes from the local filesystem. An address is a path
// to an index-v1.json, an index-v1.jar, or a directory containing either.
type FileSource struct {
	logger utils.Logger
}

// NewFileSource creates a file source. A nil logger discards output.
func NewFileSource(logger utils.Logger) *FileSource {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &FileSource{logger: logger}
}

// Fetch implements Source
func (s *FileSource) Fetch(ctx context.Context, address string) (*models.RepositoryIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(address)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Reading index from %s", path)

	if strings.EqualFold(filepath.Ext(path), ".jar") {
		return readJar(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, readError(path, err)
	}
	defer f.Close()
	return decodeAt(path, f)
}

// resolve maps an address onto an index file
func (s *FileSource) resolve(address string) (string, error) {
	path := strings.TrimPrefix(address, "file://")
	info, err := os.Stat(path)
	if err != nil {
		return "", readError(path, err)
	}
	if !info.IsDir() {
		return path, nil
	}

	for _, name := range []string{IndexJSON, IndexJar} {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errors.NewNotFoundError(errors.CodeIndexRead,
		fmt.Sprintf("no %s or %s in %s", IndexJSON, IndexJar, path)).
		WithContext("index", path)
}

func readJar(path string) (*models.RepositoryIndex, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, readError(path, err)
	}
	defer zr.Close()

	for _, file := range zr.File {
		if file.Name != IndexJSON {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, readError(path, err)
		}
		defer rc.Close()
		return decodeAt(path, rc)
	}
	return nil, errors.NewNotFoundError(errors.CodeIndexRead,
		fmt.Sprintf("%s has no %s entry", path, IndexJSON)).
		WithContext("index", path)
}

// DecodeIndex parses an index-v1 document
func DecodeIndex(r io.Reader) (*models.RepositoryIndex, error) {
	var idx models.RepositoryIndex
	if err := json.NewDecoder(r).Decode(&idx); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeParsing, errors.CodeIndexDecode, "cannot decode index")
	}
	return &idx, nil
}

func decodeAt(path string, r io.Reader) (*models.RepositoryIndex, error) {
	idx, err := DecodeIndex(r)
	if err != nil {
		if e, ok := errors.As(err); ok {
			e.WithContext("index", path)
		}
		return nil, err
	}
	return idx, nil
}

func readError(path string, err error) error {
	var e *errors.Error
	if os.IsNotExist(err) {
		e = errors.WrapError(err, errors.ErrorTypeNotFound, errors.CodeIndexRead, "index not found")
	} else {
		e = errors.WrapError(err, errors.ErrorTypeParsing, errors.CodeIndexRead, "cannot read index")
	}
	return e.WithContext("index", path)
}
