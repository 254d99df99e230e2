package webservices

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-render/styling"
)

func NewInfoService(logger *logpkg.Logger, styleSet *styling.StyleSet, tileSize int) *InfoService {
	ws := &InfoService{logger, styleSet, tileSize, chi.NewRouter()}
	ws.Get("/", ws.handleGet)

	return ws
}

type InfoService struct {
	logger   *logpkg.Logger
	styleSet *styling.StyleSet
	tileSize int
	chi.Router
}

type stylesType struct {
	DefaultStyleID string   `json:"defaultStyleId"`
	StyleIDs       []string `json:"styleIds"`
}

type infoType struct {
	Style    stylesType `json:"style"`
	TileSize int        `json:"tileSize"`
}

func (ws *InfoService) handleGet(w http.ResponseWriter, r *http.Request) {
	style := stylesType{
		ws.styleSet.GetDefaultStyleID(),
		ws.styleSet.GetAllStyleIDs(),
	}

	render.JSON(w, r, infoType{style, ws.tileSize})
}
