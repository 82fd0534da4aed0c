package watchlist

import "github.com/justchokingaround/watchlist/internal/anime"

// AnimeLoadedMsg is sent when the anime list fetch succeeds
type AnimeLoadedMsg struct {
	Records []anime.Record
}

// AnimeLoadErrorMsg is sent when the anime list fetch fails
type AnimeLoadErrorMsg struct {
	Err error
}

// ImageCheckedMsg reports the probe result for one image URL
type ImageCheckedMsg struct {
	URL string
	Err error
}

// LinkOpenedMsg is sent after trying to open a page in the browser
type LinkOpenedMsg struct {
	URL string
	Err error
}
