package fetchers

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/quantmind-br/stylekit/internal/domain"
	"github.com/quantmind-br/stylekit/internal/utils"
)

// Ensure FileFetcher implements domain.StyleFetcher
var _ domain.StyleFetcher = (*FileFetcher)(nil)

// FileFetcher reads styles from the local filesystem
type FileFetcher struct {
	fs      afero.Fs
	baseDir string
	logger  *utils.Logger
}

// FileOptions contains options for creating a FileFetcher
type FileOptions struct {
	// Fs defaults to the OS filesystem
	Fs afero.Fs
	// BaseDir anchors relative paths; defaults to the working directory
	BaseDir string
	Logger  *utils.Logger
}

// NewFileFetcher creates a FileFetcher
func NewFileFetcher(opts FileOptions) *FileFetcher {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	baseDir := utils.ExpandPath(opts.BaseDir)
	if baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			baseDir = wd
		}
	}

	return &FileFetcher{
		fs:      fsys,
		baseDir: baseDir,
		logger:  utils.OrNop(opts.Logger).WithFetcher("file"),
	}
}

func (f *FileFetcher) Name() string             { return "file" }
func (f *FileFetcher) RequiresConnection() bool { return false }
func (f *FileFetcher) Protocols() []string      { return []string{domain.FileScheme} }
func (f *FileFetcher) Domains() []string        { return nil }

// Fetch reads the file named by ref and returns its absolute path
func (f *FileFetcher) Fetch(ctx context.Context, ref string) (domain.StyleInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.StyleInfo{}, err
	}

	path, err := f.LocalPath(ref)
	if err != nil {
		return domain.StyleInfo{}, domain.NewFetchError(ref, 0, err)
	}

	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return domain.StyleInfo{}, domain.NewFetchError(ref, 0, err)
	}

	f.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Read style file")

	return domain.StyleInfo{
		Path:    path,
		Content: string(data),
	}, nil
}

// LocalPath turns ref into an absolute, cleaned filesystem path
func (f *FileFetcher) LocalPath(ref string) (string, error) {
	path := ref

	if len(ref) > 7 && strings.EqualFold(ref[:7], "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
		}
		path = u.Path
		if u.Host != "" && !strings.EqualFold(u.Host, "localhost") {
			path = "//" + u.Host + path
		}
		// file:///C:/styles/base.toml
		if len(path) > 2 && path[0] == '/' && utils.IsDrivePath(path[1:]) {
			path = path[1:]
		}
	}

	path = utils.ExpandPath(path)
	if path == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrInvalidURL)
	}

	if !filepath.IsAbs(path) && !utils.IsDrivePath(path) {
		path = filepath.Join(f.baseDir, path)
	}

	return filepath.Clean(path), nil
}
