package softengine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-render/mapresource"
	"github.com/jamesrr39/ownmap-render/projection"
	"github.com/jamesrr39/ownmap-render/styling/mapboxglstyle"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"
)

const (
	maxConcurrentRequests = 8
	glyphRange            = "0-255"
	defaultSourceMaxZoom  = 22
)

type fetchedTile struct {
	placement tilePlacement
	data      []byte
}

// renderResources holds everything fetched for one frame.
type renderResources struct {
	mu          sync.Mutex
	spriteJSON  []byte
	spriteImage []byte
	glyphs      map[string][]byte                     // font stack -> glyph range protobuf
	tileJSONs   map[string]*mapboxglstyle.TileJSON    // source ID -> TileJSON
	geoJSONs    map[string]*geojson.FeatureCollection // source ID -> features
	tiles       map[string][]*fetchedTile             // source ID -> tiles
}

func newRenderResources() *renderResources {
	return &renderResources{
		glyphs:    make(map[string][]byte),
		tileJSONs: make(map[string]*mapboxglstyle.TileJSON),
		geoJSONs:  make(map[string]*geojson.FeatureCollection),
		tiles:     make(map[string][]*fetchedTile),
	}
}

type resourceJob struct {
	request    *mapresource.ResourceRequest
	onResponse func(response *mapresource.ResourceResponse) errorsx.Error
}

// fetchAll issues the jobs' requests concurrently. The first failure is returned.
func (e *Engine) fetchAll(ctx context.Context, jobs []*resourceJob) errorsx.Error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentRequests)

	for _, job := range jobs {
		job := job
		group.Go(func() error {
			response, err := e.options.Request(groupCtx, job.request)
			if err != nil {
				return errorsx.Wrap(err, "url", job.request.URL)
			}

			err = job.onResponse(response)
			if err != nil {
				return errorsx.Wrap(err, "url", job.request.URL)
			}

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}

// fetchResources requests the style level resources and source documents, then the tiles covering the frame.
func (e *Engine) fetchResources(ctx context.Context, f *frame) (*renderResources, errorsx.Error) {
	resources := newRenderResources()
	visibleSourceIDs := e.visibleSourceIDs(f.viewport.Zoom)

	var jobs []*resourceJob
	jobs = append(jobs, e.spriteJobs(resources)...)
	jobs = append(jobs, e.glyphJobs(f.viewport.Zoom, resources)...)

	for _, sourceID := range visibleSourceIDs {
		source := e.style.Sources[sourceID]

		job, err := sourceJob(sourceID, source, resources)
		if err != nil {
			return nil, err
		}
		if job != nil {
			jobs = append(jobs, job)
		}
	}

	err := e.fetchAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	var tileJobs []*resourceJob
	for _, sourceID := range visibleSourceIDs {
		source := e.style.Sources[sourceID]
		if !source.IsTiled() {
			continue
		}

		tileJobs = append(tileJobs, tileJobsForSource(f, sourceID, source, resources)...)
	}

	err = e.fetchAll(ctx, tileJobs)
	if err != nil {
		return nil, err
	}

	return resources, nil
}

// visibleSourceIDs lists, in a stable order, the sources used by layers drawn at zoom.
func (e *Engine) visibleSourceIDs(zoom float64) []string {
	seen := make(map[string]bool)
	var sourceIDs []string

	for _, layer := range e.style.Layers {
		if layer.Source == "" || !layer.IsVisibleAtZoom(zoom) || seen[layer.Source] {
			continue
		}

		seen[layer.Source] = true
		sourceIDs = append(sourceIDs, layer.Source)
	}

	sort.Strings(sourceIDs)
	return sourceIDs
}

func (e *Engine) spriteJobs(resources *renderResources) []*resourceJob {
	if e.style.Sprite == "" {
		return nil
	}

	spriteURL := e.style.Sprite
	if e.options.Ratio > 1 {
		spriteURL += "@2x"
	}

	return []*resourceJob{
		{
			request: &mapresource.ResourceRequest{URL: spriteURL + ".json", Kind: mapresource.ResourceKindSpriteJSON},
			onResponse: func(response *mapresource.ResourceResponse) errorsx.Error {
				resources.mu.Lock()
				defer resources.mu.Unlock()
				resources.spriteJSON = response.Data
				return nil
			},
		}, {
			request: &mapresource.ResourceRequest{URL: spriteURL + ".png", Kind: mapresource.ResourceKindSpriteImage},
			onResponse: func(response *mapresource.ResourceResponse) errorsx.Error {
				resources.mu.Lock()
				defer resources.mu.Unlock()
				resources.spriteImage = response.Data
				return nil
			},
		},
	}
}

func (e *Engine) glyphJobs(zoom float64, resources *renderResources) []*resourceJob {
	if e.style.Glyphs == "" {
		return nil
	}

	seen := make(map[string]bool)
	var jobs []*resourceJob
	for _, layer := range e.style.Layers {
		if layer.Type != mapboxglstyle.LayerTypeSymbol || !layer.IsVisibleAtZoom(zoom) || !layer.Layout.HasText() {
			continue
		}

		fontStack := layer.Layout.FontStack()
		if seen[fontStack] {
			continue
		}
		seen[fontStack] = true

		glyphsURL := strings.NewReplacer("{fontstack}", fontStack, "{range}", glyphRange).Replace(e.style.Glyphs)
		jobs = append(jobs, &resourceJob{
			request: &mapresource.ResourceRequest{URL: glyphsURL, Kind: mapresource.ResourceKindGlyphs},
			onResponse: func(response *mapresource.ResourceResponse) errorsx.Error {
				resources.mu.Lock()
				defer resources.mu.Unlock()
				resources.glyphs[fontStack] = response.Data
				return nil
			},
		})
	}

	return jobs
}

// sourceJob gives the request for a source's TileJSON or geojson document, if it has one.
// Inline geojson is parsed straight away.
func sourceJob(sourceID string, source *mapboxglstyle.Source, resources *renderResources) (*resourceJob, errorsx.Error) {
	if source.URL != "" && source.IsTiled() {
		return &resourceJob{
			request: &mapresource.ResourceRequest{URL: source.URL, Kind: mapresource.ResourceKindSource},
			onResponse: func(response *mapresource.ResourceResponse) errorsx.Error {
				tileJSON, err := mapboxglstyle.ParseTileJSON(response.Data)
				if err != nil {
					return errorsx.Wrap(err, "sourceID", sourceID)
				}

				resources.mu.Lock()
				defer resources.mu.Unlock()
				resources.tileJSONs[sourceID] = tileJSON
				return nil
			},
		}, nil
	}

	if source.Type != mapboxglstyle.SourceTypeGeoJSON {
		return nil, nil
	}

	dataURL, ok := source.DataURL()
	if ok {
		return &resourceJob{
			request: &mapresource.ResourceRequest{URL: dataURL, Kind: mapresource.ResourceKindSource},
			onResponse: func(response *mapresource.ResourceResponse) errorsx.Error {
				featureCollection, err := parseGeoJSON(response.Data)
				if err != nil {
					return errorsx.Wrap(err, "sourceID", sourceID)
				}

				resources.mu.Lock()
				defer resources.mu.Unlock()
				resources.geoJSONs[sourceID] = featureCollection
				return nil
			},
		}, nil
	}

	inlineData, ok := source.InlineData()
	if !ok {
		return nil, nil
	}

	featureCollection, err := parseGeoJSON(inlineData)
	if err != nil {
		return nil, errorsx.Wrap(err, "sourceID", sourceID)
	}

	resources.geoJSONs[sourceID] = featureCollection
	return nil, nil
}

// parseGeoJSON accepts a FeatureCollection, a Feature or a bare geometry.
func parseGeoJSON(data []byte) (*geojson.FeatureCollection, errorsx.Error) {
	var header struct {
		Type string `json:"type"`
	}
	err := json.Unmarshal(data, &header)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	switch header.Type {
	case "FeatureCollection":
		featureCollection, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errorsx.Wrap(err)
		}
		return featureCollection, nil
	case "Feature":
		feature, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errorsx.Wrap(err)
		}
		return geojson.NewFeatureCollection().Append(feature), nil
	default:
		geometry, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, errorsx.Wrap(err, "type", header.Type)
		}
		return geojson.NewFeatureCollection().Append(geojson.NewFeature(geometry.Geometry())), nil
	}
}

func tileJobsForSource(f *frame, sourceID string, source *mapboxglstyle.Source, resources *renderResources) []*resourceJob {
	templates := source.Tiles
	minZoom, maxZoom := zoomRange(source.MinZoom, source.MaxZoom)
	scheme := source.Scheme

	tileJSON := resources.tileJSONs[sourceID]
	if tileJSON != nil {
		templates = tileJSON.Tiles
		minZoom, maxZoom = zoomRange(tileJSON.MinZoom, tileJSON.MaxZoom)
		if tileJSON.Scheme != "" {
			scheme = tileJSON.Scheme
		}
	}

	if len(templates) == 0 {
		return nil
	}

	round := source.Type != mapboxglstyle.SourceTypeVector
	zoom := f.coveringZoom(source.GetTileSize(), round, minZoom, maxZoom)

	var jobs []*resourceJob
	for i, placement := range f.coveringTiles(zoom) {
		placement := placement
		template := templates[i%len(templates)]

		jobs = append(jobs, &resourceJob{
			request: &mapresource.ResourceRequest{
				URL:  tileURL(template, placement.coord, scheme, f.ratio),
				Kind: mapresource.ResourceKindTile,
			},
			onResponse: func(response *mapresource.ResourceResponse) errorsx.Error {
				resources.mu.Lock()
				defer resources.mu.Unlock()
				resources.tiles[sourceID] = append(resources.tiles[sourceID], &fetchedTile{placement, response.Data})
				return nil
			},
		})
	}

	return jobs
}

func zoomRange(minZoom, maxZoom *float64) (float64, float64) {
	min, max := float64(0), float64(defaultSourceMaxZoom)
	if minZoom != nil {
		min = *minZoom
	}
	if maxZoom != nil {
		max = *maxZoom
	}
	return min, max
}

// tileURL fills in a tile URL template. "tms" sources count rows from the bottom.
func tileURL(template string, coord projection.TileCoord, scheme string, ratio float64) string {
	y := coord.Y
	if scheme == "tms" {
		y = (1 << uint(coord.Z)) - 1 - coord.Y
	}

	ratioSuffix := ""
	if ratio > 1 {
		ratioSuffix = "@2x"
	}

	return strings.NewReplacer(
		"{z}", strconv.Itoa(coord.Z),
		"{x}", strconv.Itoa(coord.X),
		"{y}", strconv.Itoa(y),
		"{ratio}", ratioSuffix,
		"{prefix}", fmt.Sprintf("%x%x", coord.X%16, coord.Y%16),
	).Replace(template)
}
