package maprender

import (
	"os"
	"path/filepath"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/userextra"
)

const (
	DefaultRatio    = 1.0
	DefaultTileSize = 256
)

// Options configures a Session. It is never changed after the session is created.
type Options struct {
	StyleURL    string
	AccessToken string
	Debug       bool
	Ratio       float64
	TileSize    int
}

func (o Options) WithDefaults() Options {
	if o.Ratio == 0 {
		o.Ratio = DefaultRatio
	}
	if o.TileSize == 0 {
		o.TileSize = DefaultTileSize
	}
	return o
}

func (o Options) Validate() errorsx.Error {
	if o.Ratio <= 0 {
		return errorsx.Errorf("ratio must be greater than 0 but was %f", o.Ratio)
	}

	if o.TileSize <= 0 || o.TileSize&(o.TileSize-1) != 0 {
		return errorsx.Errorf("tile size must be a positive power of 2 but was %d", o.TileSize)
	}

	return nil
}

const defaultDataDir = "~/.local/share/github.com/jamesrr39/ownmap-render"

type PathsConfig struct {
	StylesDir string
	OutputDir string
	TraceDir  string
}

// DefaultPathsConfig roots every directory under the user's data directory.
func DefaultPathsConfig() (*PathsConfig, errorsx.Error) {
	dataDir, err := userextra.ExpandUser(defaultDataDir)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return &PathsConfig{
		StylesDir: filepath.Join(dataDir, "styles"),
		OutputDir: filepath.Join(dataDir, "output"),
		TraceDir:  filepath.Join(dataDir, "traces"),
	}, nil
}

func (pc *PathsConfig) EnsurePaths(fs gofs.Fs) errorsx.Error {
	for _, dirPath := range []string{pc.StylesDir, pc.OutputDir, pc.TraceDir} {
		if dirPath == "" {
			continue
		}

		err := fs.MkdirAll(dirPath, 0755)
		if err != nil {
			return errorsx.Wrap(err, "path", dirPath)
		}
	}

	return nil
}

// ExpandPath expands a leading ~ and makes the path absolute.
func ExpandPath(path string) (string, errorsx.Error) {
	expanded, err := userextra.ExpandUser(path)
	if err != nil {
		return "", errorsx.Wrap(err, "path", path)
	}

	if filepath.IsAbs(expanded) {
		return expanded, nil
	}

	workingDir, err := os.Getwd()
	if err != nil {
		return "", errorsx.Wrap(err)
	}

	return filepath.Join(workingDir, expanded), nil
}
