package styling

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
)

const styleFileExtension = ".json"

// StyleDocument is a style document the server can render with, identified by its file name.
type StyleDocument struct {
	ID       string
	Path     string
	Document string
}

type StyleSet struct {
	stylesMap      map[string]*StyleDocument // map[Style ID]Style
	defaultStyleID string
}

func NewStyleSet(styles []*StyleDocument, defaultStyleID string) (*StyleSet, errorsx.Error) {
	styleSet := &StyleSet{
		stylesMap:      make(map[string]*StyleDocument),
		defaultStyleID: defaultStyleID,
	}

	defaultIDFound := false

	for _, style := range styles {
		styleID := style.ID
		_, ok := styleSet.stylesMap[styleID]
		if ok {
			return nil, errorsx.Errorf("duplicate style ID found: %q", styleID)
		}

		styleSet.stylesMap[styleID] = style

		if defaultStyleID == styleID {
			defaultIDFound = true
		}
	}

	if !defaultIDFound {
		return nil, errorsx.Errorf("default ID %q not found in any supplied styles", defaultStyleID)
	}

	return styleSet, nil
}

// LoadStylesFromDir reads every .json file in dir as a style document. The ID is the file name without the extension.
func LoadStylesFromDir(fs gofs.Fs, dir string) ([]*StyleDocument, errorsx.Error) {
	fileInfos, err := fs.ReadDir(dir)
	if err != nil {
		return nil, errorsx.Wrap(err, "dir", dir)
	}

	var styles []*StyleDocument
	for _, fileInfo := range fileInfos {
		if fileInfo.IsDir() || !strings.EqualFold(filepath.Ext(fileInfo.Name()), styleFileExtension) {
			continue
		}

		path := filepath.Join(dir, fileInfo.Name())
		document, err := fs.ReadFile(path)
		if err != nil {
			return nil, errorsx.Wrap(err, "path", path)
		}

		styles = append(styles, &StyleDocument{
			ID:       strings.TrimSuffix(fileInfo.Name(), filepath.Ext(fileInfo.Name())),
			Path:     path,
			Document: string(document),
		})
	}

	return styles, nil
}

func (s *StyleSet) GetStyleByID(id string) *StyleDocument {
	return s.stylesMap[id]
}

func (s *StyleSet) GetDefaultStyle() *StyleDocument {
	return s.stylesMap[s.defaultStyleID]
}

func (s *StyleSet) GetDefaultStyleID() string {
	return s.defaultStyleID
}

func (s *StyleSet) GetAllStyleIDs() []string {
	var styleIDs []string

	for id := range s.stylesMap {
		styleIDs = append(styleIDs, id)
	}

	sort.Strings(styleIDs)

	return styleIDs
}
