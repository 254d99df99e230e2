package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-render/mapengine"
	"github.com/jamesrr39/ownmap-render/mapengine/softengine"
	"github.com/jamesrr39/ownmap-render/maprender"
	"github.com/jamesrr39/ownmap-render/projection"
	"github.com/jamesrr39/ownmap-render/styling"
	"github.com/jamesrr39/ownmap-render/webservices"
	"github.com/jamesrr39/semaphore"
	"github.com/pkg/profile"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	DEFAULT_PORT             = 9000
	DEFAULT_IMAGE_SIZE       = 512
	DEFAULT_TILE_RENDER_JOBS = 4
	ACCESS_TOKEN_ENVAR       = "MAPBOX_ACCESS_TOKEN"
)

var (
	logger  *logpkg.Logger
	verbose *bool
)

func main() {
	verbose = kingpin.Flag("v", "verbose logging").Bool()

	setupRender()
	setupRenderTiles()
	setupServe()

	kingpin.Parse()
}

// setupLogger is called at the start of each command, once the flags are parsed
func setupLogger() {
	logLevel := logpkg.LogLevelInfo
	if *verbose {
		logLevel = logpkg.LogLevelDebug
	}
	logger = logpkg.NewLogger(os.Stderr, logLevel)
}

type sessionFlags struct {
	accessToken *string
	ratio       *float64
	tileSize    *int
}

func addSessionFlags(cmd *kingpin.CmdClause) sessionFlags {
	return sessionFlags{
		accessToken: cmd.Flag("access-token", "mapbox access token, used for mapbox:// URLs").Envar(ACCESS_TOKEN_ENVAR).String(),
		ratio:       cmd.Flag("ratio", "pixel ratio").Default(strconv.FormatFloat(maprender.DefaultRatio, 'f', -1, 64)).Float64(),
		tileSize:    cmd.Flag("tile-size", "size of a tile in pixels, at ratio 1").Default(strconv.Itoa(maprender.DefaultTileSize)).Int(),
	}
}

func (sf sessionFlags) options(styleURL string) maprender.Options {
	return maprender.Options{
		StyleURL:    styleURL,
		AccessToken: *sf.accessToken,
		Debug:       *verbose,
		Ratio:       *sf.ratio,
		TileSize:    *sf.tileSize,
	}
}

func newSession(fs gofs.Fs, options maprender.Options) (*maprender.Session, errorsx.Error) {
	session, err := maprender.NewSession(logger, fs, nil, softengine.Factory, options)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	err = session.LoadStyle(context.Background(), "")
	if err != nil {
		return nil, errorsx.Wrap(err, "style", options.StyleURL)
	}

	return session, nil
}

func setupRender() {
	cmd := kingpin.Command("render", "render a single image")
	stylePath := cmd.Arg("style", "style path or URL (file://, http(s)://, mapbox://)").Required().String()
	outputPath := cmd.Arg("output", "output file. The extension picks the format (png, jpg, tiff, bmp). Default: a png in the output directory").String()
	centerStr := cmd.Flag("center", "center of the image, as lng,lat").Default("0,0").String()
	zoom := cmd.Flag("zoom", "zoom level").Default("0").Float64()
	width := cmd.Flag("width", "width in pixels, at ratio 1").Default(strconv.Itoa(DEFAULT_IMAGE_SIZE)).Int()
	height := cmd.Flag("height", "height in pixels, at ratio 1").Default(strconv.Itoa(DEFAULT_IMAGE_SIZE)).Int()
	bearing := cmd.Flag("bearing", "bearing in degrees").Default("0").Float64()
	pitch := cmd.Flag("pitch", "pitch in degrees").Default("0").Float64()
	sessionFlags := addSessionFlags(cmd)
	shouldProfile := cmd.Flag("profile", "profile the render").Bool()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		setupLogger()

		run := func() errorsx.Error {
			var err error
			fs := gofs.NewOsFs()

			center, err := parseCenter(*centerStr)
			if err != nil {
				return errorsx.Wrap(err)
			}

			output := *outputPath
			if output == "" {
				output, err = defaultOutputPath(fs)
				if err != nil {
					return errorsx.Wrap(err)
				}
			}

			output, err = maprender.ExpandPath(output)
			if err != nil {
				return errorsx.Wrap(err)
			}

			if *shouldProfile {
				defer profile.Start(profile.ProfilePath(filepath.Dir(output)), profile.CPUProfile).Stop()
			}

			session, err := newSession(fs, sessionFlags.options(*stylePath))
			if err != nil {
				return errorsx.Wrap(err)
			}

			viewport := mapengine.Viewport{
				Zoom:    *zoom,
				Width:   *width,
				Height:  *height,
				Center:  center,
				Bearing: *bearing,
				Pitch:   *pitch,
			}

			startTime := time.Now()
			err = session.RenderToFile(context.Background(), viewport, output)
			if err != nil {
				return errorsx.Wrap(err)
			}

			logger.Info("rendered %q in %s", output, time.Since(startTime))
			return nil
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}

func setupRenderTiles() {
	cmd := kingpin.Command("render-tiles", "render a tile and the tiles below it, as <output-dir>/z/x/y.png")
	stylePath := cmd.Arg("style", "style path or URL (file://, http(s)://, mapbox://)").Required().String()
	outputDir := cmd.Arg("output-dir", "directory to write the tiles to").Required().String()
	tileStr := cmd.Flag("tile", "top tile of the pyramid, as z/x/y").Default("0/0/0").String()
	depth := cmd.Flag("depth", "how many zoom levels below the top tile to render").Default("0").Int()
	jobs := cmd.Flag("jobs", "how many tiles to render at once").Default(strconv.Itoa(DEFAULT_TILE_RENDER_JOBS)).Uint()
	sessionFlags := addSessionFlags(cmd)
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		setupLogger()

		run := func() errorsx.Error {
			var err error
			fs := gofs.NewOsFs()

			topTile, err := projection.ParseTileCoord(*tileStr)
			if err != nil {
				return errorsx.Wrap(err)
			}

			dir, err := maprender.ExpandPath(*outputDir)
			if err != nil {
				return errorsx.Wrap(err)
			}

			session, err := newSession(fs, sessionFlags.options(*stylePath))
			if err != nil {
				return errorsx.Wrap(err)
			}

			tiles := projection.TilePyramid(topTile, *depth)
			logger.Info("rendering %d tiles to %q", len(tiles), dir)

			return renderTiles(fs, session, tiles, dir, *jobs)
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}

func renderTiles(fs gofs.Fs, session *maprender.Session, tiles []projection.TileCoord, dir string, jobs uint) errorsx.Error {
	tileSize := session.Options().TileSize
	sema := semaphore.NewSemaphore(jobs)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr errorsx.Error

	setFirstErr := func(err errorsx.Error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, tile := range tiles {
		tileDir := filepath.Join(dir, strconv.Itoa(tile.Z), strconv.Itoa(tile.X))
		err := fs.MkdirAll(tileDir, 0755)
		if err != nil {
			// renders already started still finish before returning
			setFirstErr(errorsx.Wrap(err, "path", tileDir))
			break
		}

		center := projection.WGS84TileCenter(tile.Vector(), float64(tile.Z), tileSize)
		viewport := mapengine.Viewport{
			Zoom:   projection.ViewportZoomForTile(tile.Z, tileSize),
			Width:  tileSize,
			Height: tileSize,
			Center: [2]float64{center.Lng, center.Lat},
		}
		outputPath := filepath.Join(tileDir, fmt.Sprintf("%d.png", tile.Y))

		sema.Add()
		wg.Add(1)
		go func(tile projection.TileCoord) {
			defer wg.Done()
			defer sema.Done()

			err := session.RenderToFile(context.Background(), viewport, outputPath)
			if err != nil {
				setFirstErr(errorsx.Wrap(err, "tile", tile.String()))
				return
			}

			logger.Info("rendered tile %s", tile)
		}(tile)
	}

	wg.Wait()

	return firstErr
}

var addrHelp = fmt.Sprintf(
	`address to serve on. Ex: ':%d' listen on port %d to traffic from anywhere. 'localhost:%d' listen on port %d to traffic from localhost`,
	DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT,
)

func setupServe() {
	cmd := kingpin.Command("serve", "serve webserver")
	addr := cmd.Flag("addr", addrHelp).Default(fmt.Sprintf(":%d", DEFAULT_PORT)).String()
	stylesDir := cmd.Flag("styles-dir", "folder containing style documents (*.json). Default: the styles directory in the user's data directory").String()
	defaultStyleID := cmd.Flag("default-style-id", "ID (file name without extension) of the style to use when none is requested").Required().String()
	sessionFlags := addSessionFlags(cmd)
	shouldProfile := cmd.Flag("profile", "profile the request performance").Bool()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		setupLogger()

		run := func() errorsx.Error {
			var err error
			fs := gofs.NewOsFs()

			pathsConfig, err := maprender.DefaultPathsConfig()
			if err != nil {
				return errorsx.Wrap(err)
			}

			if *stylesDir != "" {
				pathsConfig.StylesDir, err = maprender.ExpandPath(*stylesDir)
				if err != nil {
					return errorsx.Wrap(err)
				}
			}

			err = pathsConfig.EnsurePaths(fs)
			if err != nil {
				return errorsx.Wrap(err)
			}

			styles, err := styling.LoadStylesFromDir(fs, pathsConfig.StylesDir)
			if err != nil {
				return errorsx.Wrap(err)
			}

			styleSet, err := styling.NewStyleSet(styles, *defaultStyleID)
			if err != nil {
				return errorsx.Wrap(err)
			}

			styleSessions, err := webservices.NewStyleSessions(logger, fs, nil, softengine.Factory, sessionFlags.options(""), styleSet)
			if err != nil {
				return errorsx.Wrap(err)
			}

			router, err := createServer(fs, styleSessions, pathsConfig, *sessionFlags.tileSize, *shouldProfile)
			if err != nil {
				return errorsx.Wrap(err)
			}

			server := httpextra.NewServerWithTimeouts()
			server.Addr = *addr
			server.Handler = router

			logger.Info("about to start serving %d styles on %q", len(styleSet.GetAllStyleIDs()), *addr)

			err = server.ListenAndServe()
			if err != nil {
				return errorsx.Wrap(err)
			}
			return nil
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}

func createServer(fs gofs.Fs, styleSessions *webservices.StyleSessions, pathsConfig *maprender.PathsConfig, tileSize int, shouldProfile bool) (chi.Router, errorsx.Error) {
	traceFilePath := filepath.Join(pathsConfig.TraceDir, fmt.Sprintf("trace_%s.pbf", time.Now().Format("2006-01-02__03_04_05")))
	logger.Info("tracing at %q", traceFilePath)

	traceFile, err := fs.Create(traceFilePath)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	tracer := tracing.NewTracer(traceFile)

	router := chi.NewRouter()
	router.Use(middleware.DefaultLogger)
	router.Mount("/", webservices.NewRouter(logger, tracer, styleSessions, tileSize, shouldProfile))

	return router, nil
}

func parseCenter(centerStr string) ([2]float64, errorsx.Error) {
	fragments := strings.Split(centerStr, ",")
	if len(fragments) != 2 {
		return [2]float64{}, errorsx.Errorf("expected center in the form lng,lat but got %q", centerStr)
	}

	var center [2]float64
	for i, fragment := range fragments {
		value, err := strconv.ParseFloat(strings.TrimSpace(fragment), 64)
		if err != nil {
			return [2]float64{}, errorsx.Wrap(err, "center", centerStr)
		}
		center[i] = value
	}

	return center, nil
}

func defaultOutputPath(fs gofs.Fs) (string, errorsx.Error) {
	pathsConfig, err := maprender.DefaultPathsConfig()
	if err != nil {
		return "", errorsx.Wrap(err)
	}

	err = pathsConfig.EnsurePaths(fs)
	if err != nil {
		return "", errorsx.Wrap(err)
	}

	return filepath.Join(pathsConfig.OutputDir, fmt.Sprintf("render_%s.png", time.Now().Format("2006-01-02__15_04_05"))), nil
}
