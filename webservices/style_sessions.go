package webservices

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-render/mapengine"
	"github.com/jamesrr39/ownmap-render/maprender"
	"github.com/jamesrr39/ownmap-render/styling"
)

// StyleSessions holds one rendering session per style in a style set.
type StyleSessions struct {
	styleSet *styling.StyleSet
	sessions map[string]*maprender.Session // map[Style ID]Session
}

func NewStyleSessions(logger *logpkg.Logger, fs gofs.Fs, doer httpextra.Doer, factory mapengine.Factory, options maprender.Options, styleSet *styling.StyleSet) (*StyleSessions, errorsx.Error) {
	sessions := make(map[string]*maprender.Session)

	for _, styleID := range styleSet.GetAllStyleIDs() {
		style := styleSet.GetStyleByID(styleID)

		session, err := maprender.NewSession(logger, fs, doer, factory, options)
		if err != nil {
			return nil, errorsx.Wrap(err, "styleID", styleID)
		}

		err = session.LoadStyleDocument(style.Document)
		if err != nil {
			return nil, errorsx.Wrap(err, "styleID", styleID, "path", style.Path)
		}

		sessions[styleID] = session
	}

	return &StyleSessions{styleSet, sessions}, nil
}

// Get returns the session for styleID, or for the default style if styleID is empty.
func (s *StyleSessions) Get(styleID string) (*maprender.Session, errorsx.Error) {
	if styleID == "" {
		styleID = s.styleSet.GetDefaultStyleID()
	}

	session, ok := s.sessions[styleID]
	if !ok {
		return nil, errorsx.Errorf("couldn't get requested style %q (style not loaded)", styleID)
	}

	return session, nil
}

func (s *StyleSessions) StyleSet() *styling.StyleSet {
	return s.styleSet
}
